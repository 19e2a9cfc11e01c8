package content

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sikfilm/site/internal/models"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one two  three\nfour", 4},
		{"你好世界", 4},
		{"hello 世界", 3},
		{"世界!", 3},
		{"mixed中文words", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.body); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.body, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		wpm   int
		want  int
	}{
		{"empty", 0, 200, 0},
		{"one word", 1, 200, 1},
		{"exact minute", 200, 200, 1},
		{"rounds up", 201, 200, 2},
		{"custom rate", 300, 100, 3},
		{"bad rate uses default", 400, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Repeat("word ", tt.words)
			if got := ReadingTime(body, tt.wpm); got != tt.want {
				t.Errorf("ReadingTime(%d words, %d) = %d, want %d", tt.words, tt.wpm, got, tt.want)
			}
		})
	}
}

func TestHeadings(t *testing.T) {
	body := "# Title\r\nintro\n## Day One  \n####### too deep\n#nospace\n### 第三 部分\n"
	want := []models.Heading{
		{Level: 1, Text: "Title", Slug: "title"},
		{Level: 2, Text: "Day One", Slug: "day-one"},
		{Level: 3, Text: "第三 部分", Slug: "第三-部分"},
	}
	if got := Headings(body); !reflect.DeepEqual(got, want) {
		t.Errorf("Headings = %+v, want %+v", got, want)
	}
	if got := Headings("no headings"); got == nil || len(got) != 0 {
		t.Errorf("Headings without any = %#v", got)
	}
}
