// Package cli renders command output for the sikfilm tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sikfilm/site/internal/colors"
	"github.com/sikfilm/site/internal/models"
	"github.com/sikfilm/site/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text", "json" or "" (text).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WritePosts writes a post listing.
func WritePosts(w io.Writer, posts []*models.Post, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts.")
		return nil
	}
	for _, p := range posts {
		pin := " "
		if p.Pin {
			pin = "*"
		}
		fmt.Fprintf(w, "%s %-10s  %-32s  %s\n", pin, dateOrDash(p.PublishedAt), p.Slug, p.Title)
	}
	return nil
}

// WritePostDetail writes one post with its headings and related posts.
func WritePostDetail(w io.Writer, d *models.PostDetail, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, d)
	}
	fmt.Fprintf(w, "%s\n", d.Title)
	fmt.Fprintf(w, "Slug: %s\n", d.Slug)
	fmt.Fprintf(w, "Published: %s | Reading time: %d min | Mood: %s\n", dateOrDash(d.PublishedAt), d.ReadingTime, d.Mood)
	if len(d.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(d.Categories, ", "))
	}
	if d.MainImage.URL != "" {
		fmt.Fprintf(w, "Image: %s\n", d.MainImage.URL)
	}
	if dc := d.MainImage.Dominant; dc != nil {
		fmt.Fprintf(w, "Colors: %s on %s\n", dc.Foreground, dc.Background)
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	if len(d.Headings) > 0 {
		fmt.Fprintln(w, "\nContents:")
		for _, h := range d.Headings {
			fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", h.Level-1), h.Text)
		}
	}
	if len(d.Related) > 0 {
		fmt.Fprintln(w, "\nRelated:")
		for _, p := range d.Related {
			fmt.Fprintf(w, "  %s  %s\n", p.Slug, p.Title)
		}
	}
	return nil
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", response.Total, response.QueryTime)
	for _, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f\n", result.Rank, result.Score)
		fmt.Fprintf(w, "Slug: %s\n", result.Post.Slug)
		fmt.Fprintf(w, "Title: %s\n", result.Post.Title)
		if result.Post.Description != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Post.Description, 200))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteColorStats writes the summary of a color extraction run.
func WriteColorStats(w io.Writer, stats colors.Stats, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, stats)
	}
	fmt.Fprintf(w, "Processed %d posts in %s: %d updated, %d skipped, %d failed\n",
		stats.Total, stats.Duration.Round(1e6), stats.Updated, stats.Skipped, stats.Failed)
	return nil
}

// Status is a snapshot of the content and storage state.
type Status struct {
	PostsDir       string `json:"posts_dir"`
	Posts          int    `json:"posts"`
	Colored        int    `json:"colored"`
	WithImage      int    `json:"with_image"`
	StorageBackend string `json:"storage_backend"`
	DiskUsageBytes int64  `json:"disk_usage_bytes"`
}

// WriteStatus writes s in the given format.
func WriteStatus(w io.Writer, s Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "Posts dir:     %s\n", s.PostsDir)
	fmt.Fprintf(w, "Posts:         %d\n", s.Posts)
	fmt.Fprintf(w, "With image:    %d\n", s.WithImage)
	fmt.Fprintf(w, "Colored:       %d\n", s.Colored)
	fmt.Fprintf(w, "Storage:       %s\n", s.StorageBackend)
	fmt.Fprintf(w, "Disk usage:    %s\n", FormatBytes(s.DiskUsageBytes))
	return nil
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func dateOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
