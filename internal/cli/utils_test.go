package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sikfilm/site/internal/colors"
	"github.com/sikfilm/site/internal/models"
)

func samplePosts() []*models.Post {
	return []*models.Post{
		{Slug: "kyoto", Title: "Autumn in Kyoto", PublishedAt: "2024-10-01", Pin: true},
		{Slug: "draft", Title: "Undated"},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"JSON", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWritePosts_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePosts(&buf, samplePosts(), OutputText); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "* 2024-10-01") || !strings.Contains(lines[0], "kyoto") {
		t.Errorf("pinned line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  -") {
		t.Errorf("undated line = %q", lines[1])
	}
}

func TestWritePosts_empty(t *testing.T) {
	var buf bytes.Buffer
	_ = WritePosts(&buf, nil, OutputText)
	if !strings.Contains(buf.String(), "No posts") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWritePosts_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePosts(&buf, samplePosts(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded []models.Post
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0].Slug != "kyoto" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWritePostDetail_text(t *testing.T) {
	d := &models.PostDetail{
		Post: models.Post{
			Slug:        "kyoto",
			Title:       "Autumn in Kyoto",
			PublishedAt: "2024-10-01",
			ReadingTime: 3,
			Mood:        models.MoodHappy,
			Categories:  []string{"travel", "film"},
			MainImage: models.MainImage{
				URL:      "https://cdn.example.com/kyoto.webp",
				Dominant: &models.DominantColors{Background: "#3a6b8c", Foreground: "#ffffff"},
			},
		},
		Headings: []models.Heading{{Level: 1, Text: "Temples"}, {Level: 2, Text: "Leaves"}},
		Related:  []*models.Post{{Slug: "ramen", Title: "Ramen notes"}},
	}
	var buf bytes.Buffer
	if err := WritePostDetail(&buf, d, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Autumn in Kyoto",
		"Reading time: 3 min",
		"Categories: travel, film",
		"Colors: #ffffff on #3a6b8c",
		"- Temples\n  - Leaves",
		"ramen  Ramen notes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	response := &models.SearchResponse{
		Query:     "test query",
		QueryTime: 42,
		Total:     1,
		Results: []*models.SearchResult{
			{Rank: 1, Score: 0.9, Post: &models.Post{Slug: "doc-1", Title: "Test Doc"}},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputJSON); err != nil {
		t.Fatalf("WriteSearchResults(json): %v", err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Query != response.Query || decoded.QueryTime != response.QueryTime {
		t.Errorf("decoded query=%q query_time=%d", decoded.Query, decoded.QueryTime)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].Post.Slug != "doc-1" {
		t.Errorf("decoded results = %+v", decoded.Results)
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	response := &models.SearchResponse{
		Total:     1,
		QueryTime: 3,
		Results: []*models.SearchResult{
			{Rank: 1, Score: 1.25, Post: &models.Post{Slug: "kyoto", Title: "Kyoto", Description: strings.Repeat("长", 250)}},
		},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, response, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Found 1 results in 3ms") || !strings.Contains(out, "Score: 1.2500") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("长", 200)+"...") {
		t.Error("description should be truncated to 200 runes")
	}
}

func TestWriteColorStats(t *testing.T) {
	stats := colors.Stats{Total: 5, Updated: 2, Skipped: 2, Failed: 1, Duration: 1500 * time.Millisecond}
	var buf bytes.Buffer
	if err := WriteColorStats(&buf, stats, OutputText); err != nil {
		t.Fatal(err)
	}
	want := "Processed 5 posts in 1.5s: 2 updated, 2 skipped, 1 failed\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := WriteColorStats(&buf, stats, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded colors.Stats
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != stats {
		t.Errorf("decoded = %+v, want %+v", decoded, stats)
	}
}

func TestWriteStatus(t *testing.T) {
	var buf bytes.Buffer
	s := Status{PostsDir: "/srv/posts", Posts: 3, Colored: 1, WithImage: 2, StorageBackend: "sqlite", DiskUsageBytes: 2048}
	if err := WriteStatus(&buf, s, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Disk usage:    2.0 KiB") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
