package content

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/internal/slug"
)

// CountWords counts whitespace-separated runs as words, except that every CJK
// ideograph, kana or hangul syllable counts as a word of its own.
func CountWords(body string) int {
	words := 0
	inWord := false
	for _, r := range body {
		switch {
		case unicode.IsSpace(r):
			inWord = false
		case isCJK(r):
			words++
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// ReadingTime estimates whole minutes to read body at wpm words per minute,
// rounded up. An empty body takes 0 minutes.
func ReadingTime(body string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := CountWords(body)
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(wpm)))
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// Headings lists the ATX headings of body in order.
func Headings(body string) []models.Heading {
	headings := []models.Heading{}
	for _, line := range strings.Split(body, "\n") {
		m := headingRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		headings = append(headings, models.Heading{
			Level: len(m[1]),
			Text:  text,
			Slug:  slug.Anchor(text),
		})
	}
	return headings
}
