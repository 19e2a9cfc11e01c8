// Package slug maps between post slugs and the files that hold them.
package slug

import (
	"path/filepath"
	"strings"
)

// FromFilename returns the slug for a document file name, which is the base name
// without ext. It reports false when name does not carry ext.
func FromFilename(name, ext string) (string, bool) {
	base := filepath.Base(name)
	if ext == "" || !strings.HasSuffix(base, ext) {
		return "", false
	}
	s := strings.TrimSuffix(base, ext)
	if s == "" {
		return "", false
	}
	return s, true
}

// Valid reports whether s can name a file directly inside the posts directory.
func Valid(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return false
	}
	return !strings.ContainsRune(s, 0)
}

// Path resolves the file for s in dir. Invalid slugs resolve to nothing.
func Path(dir, s, ext string) (string, bool) {
	if !Valid(s) {
		return "", false
	}
	return filepath.Join(dir, s+ext), true
}

// Anchor derives an in-page anchor from heading text: lower case, whitespace runs
// become single dashes.
func Anchor(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "-")
}
