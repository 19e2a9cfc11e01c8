// Package frontmatter parses and edits the leading "---" metadata block of content files.
//
// The block holds flat "key: value" lines. Keys registered as list keys (by default
// "categories") collect the "- item" lines that follow them. Nested objects and
// multi-line scalars are not supported.
package frontmatter

import (
	"errors"
	"strings"
)

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// DefaultListKeys are the keys whose values are item sequences.
var DefaultListKeys = []string{"categories"}

// ErrNoFrontMatter is returned when a document has no metadata block to edit.
var ErrNoFrontMatter = errors.New("no front matter block")

// Block is the location of the metadata region inside a document.
type Block struct {
	// Start is the offset of the first byte after the opening delimiter line.
	Start int
	// End is the offset of the closing delimiter line.
	End int
	// BodyStart is the offset of the first byte after the closing delimiter line.
	BodyStart int

	region  string
	newline string
}

// Locate finds the metadata block at the top of text. The opening delimiter must be
// the first line; the block ends at the next line that is exactly the delimiter.
func Locate(text string) (Block, bool) {
	first := strings.IndexByte(text, '\n')
	if first < 0 || strings.TrimSuffix(text[:first], "\r") != Delimiter {
		return Block{}, false
	}
	newline := "\n"
	if first > 0 && text[first-1] == '\r' {
		newline = "\r\n"
	}
	start := first + 1
	for pos := start; pos < len(text); {
		next := strings.IndexByte(text[pos:], '\n')
		lineEnd := len(text)
		if next >= 0 {
			lineEnd = pos + next
		}
		if strings.TrimSuffix(text[pos:lineEnd], "\r") == Delimiter {
			bodyStart := len(text)
			if next >= 0 {
				bodyStart = lineEnd + 1
			}
			return Block{
				Start:     start,
				End:       pos,
				BodyStart: bodyStart,
				region:    text[start:pos],
				newline:   newline,
			}, true
		}
		if next < 0 {
			break
		}
		pos = lineEnd + 1
	}
	return Block{}, false
}

// Region returns the raw metadata text between the delimiters.
func (b Block) Region() string {
	return b.region
}

// HasKey reports whether key is set by a "key: value" line inside the block.
// Text outside the block is never consulted.
func (b Block) HasKey(key string) bool {
	for _, line := range splitLines(b.region) {
		kind, k, _ := classify(line.text)
		if kind == lineKeyValue && k == key {
			return true
		}
	}
	return false
}

type lineKind int

const (
	lineBlank lineKind = iota
	lineListItem
	lineKeyValue
	lineOther
)

// classify decides the shape of one metadata line. Keys split on the first colon
// so values such as URLs keep theirs.
func classify(line string) (kind lineKind, key, value string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineBlank, "", ""
	}
	if strings.HasPrefix(trimmed, "- ") {
		return lineListItem, "", unquote(strings.TrimSpace(trimmed[2:]))
	}
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return lineOther, "", ""
	}
	key = strings.TrimSpace(line[:idx])
	if key == "" {
		return lineOther, "", ""
	}
	return lineKeyValue, key, unquote(strings.TrimSpace(line[idx+1:]))
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

type line struct {
	text       string
	terminator string
}

func splitLines(s string) []line {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	out := make([]line, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		text := strings.TrimRight(p, "\r\n")
		out = append(out, line{text: text, terminator: p[len(text):]})
	}
	return out
}
