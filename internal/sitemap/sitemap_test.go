package sitemap

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func locs(set *URLSet) []string {
	out := make([]string, len(set.URLs))
	for i, u := range set.URLs {
		out[i] = u.Loc
	}
	return out
}

func TestBuild(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	set, err := Build("https://sikfilm.com/", []string{"kyoto", "ramen"}, stamp)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"https://sikfilm.com/",
		"https://sikfilm.com/blog",
		"https://sikfilm.com/projects",
		"https://sikfilm.com/blog/kyoto",
		"https://sikfilm.com/blog/ramen",
	}
	got := locs(set)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("locs = %v, want %v", got, want)
	}
	for _, u := range set.URLs {
		if u.LastModified != "2024-05-01T00:00:00Z" {
			t.Errorf("lastmod = %q", u.LastModified)
		}
	}
}

func TestBuild_basePath(t *testing.T) {
	set, err := Build("https://example.com/site", []string{"a"}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if got := set.URLs[3].Loc; got != "https://example.com/site/blog/a" {
		t.Errorf("loc = %q", got)
	}
	if set.URLs[0].LastModified != "" {
		t.Error("zero time should omit lastmod")
	}
}

func TestBuild_relativeBase(t *testing.T) {
	if _, err := Build("/blog", nil, time.Time{}); err == nil {
		t.Error("expected error for relative base url")
	}
}

func TestWrite(t *testing.T) {
	set, err := Build("https://sikfilm.com", []string{"kyoto"}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, set); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("missing header: %q", out[:20])
	}
	if !strings.Contains(out, `<urlset xmlns="`+Namespace+`">`) {
		t.Errorf("missing namespace: %s", out)
	}

	var decoded URLSet
	if err := xml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.URLs) != 4 || decoded.URLs[3].Loc != "https://sikfilm.com/blog/kyoto" {
		t.Errorf("decoded = %+v", decoded.URLs)
	}
}
