// Package models defines the records served by the content repository and the search API.
package models

import "time"

// Mood is the tone a post declares in its metadata.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodNeutral Mood = "neutral"
)

// ParseMood maps a metadata value to a Mood. Unknown or empty values are neutral.
func ParseMood(s string) Mood {
	switch Mood(s) {
	case MoodHappy, MoodSad:
		return Mood(s)
	}
	return MoodNeutral
}

// DominantColors is the theme color pair committed by the color extractor.
type DominantColors struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// MainImage is a post's cover image.
type MainImage struct {
	URL      string          `json:"url"`
	LQIP     string          `json:"lqip,omitempty"`
	Dominant *DominantColors `json:"dominant,omitempty"`
}

// Post is one document record, rebuilt from its file on every read.
type Post struct {
	ID          string    `json:"_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt string    `json:"publishedAt"`
	Pin         bool      `json:"pin"`
	Categories  []string  `json:"categories"`
	Mood        Mood      `json:"mood"`
	ReadingTime int       `json:"readingTime"`
	MainImage   MainImage `json:"mainImage"`
	Bilibili    string    `json:"bilibili,omitempty"`
	Douyin      string    `json:"douyin,omitempty"`
	Kuaishou    string    `json:"kuaishou,omitempty"`

	// Published is PublishedAt parsed for ordering; zero when unparseable.
	Published time.Time `json:"-"`
}

// SharesCategory reports whether p and other have at least one category in common.
func (p *Post) SharesCategory(other *Post) bool {
	for _, a := range p.Categories {
		for _, b := range other.Categories {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Heading is a markdown heading found in a post body.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}

// PostDetail is a post with its body and derived navigation data.
type PostDetail struct {
	Post
	Body     string    `json:"body"`
	Headings []Heading `json:"headings"`
	Related  []*Post   `json:"related"`
	Views    int64     `json:"views,omitempty"`
}
