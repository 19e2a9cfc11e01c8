package frontmatter

import (
	"strings"
)

// Field is a scalar metadata entry to write.
type Field struct {
	Key   string
	Value string
}

func (f Field) line() string {
	return f.Key + `: "` + f.Value + `"`
}

// Upsert writes fields into the metadata block of text. Fields missing from the block
// are inserted right after the opening delimiter, in the given order. Fields already
// present are rewritten in place only when force is set. It reports whether the text
// changed; text without a block yields ErrNoFrontMatter.
func Upsert(text string, fields []Field, force bool) (string, bool, error) {
	block, ok := Locate(text)
	if !ok {
		return text, false, ErrNoFrontMatter
	}

	wanted := make(map[string]Field, len(fields))
	for _, f := range fields {
		wanted[f.Key] = f
	}
	present := make(map[string]bool, len(fields))
	changed := false

	var region strings.Builder
	for _, l := range splitLines(block.region) {
		kind, key, _ := classify(l.text)
		f, match := wanted[key]
		if kind != lineKeyValue || !match {
			region.WriteString(l.text + l.terminator)
			continue
		}
		present[key] = true
		if !force {
			region.WriteString(l.text + l.terminator)
			continue
		}
		replacement := f.line()
		if replacement != l.text {
			changed = true
		}
		terminator := l.terminator
		if terminator == "" {
			terminator = block.newline
		}
		region.WriteString(replacement + terminator)
	}

	var inserted strings.Builder
	for _, f := range fields {
		if present[f.Key] {
			continue
		}
		inserted.WriteString(f.line() + block.newline)
		changed = true
	}
	if !changed {
		return text, false, nil
	}
	return text[:block.Start] + inserted.String() + region.String() + text[block.End:], true, nil
}
