package slug

import (
	"path/filepath"
	"testing"
)

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		ext    string
		want   string
		wantOK bool
	}{
		{"hello-world.mdx", ".mdx", "hello-world", true},
		{"/abs/dir/trip.mdx", ".mdx", "trip", true},
		{"notes.md", ".mdx", "", false},
		{".mdx", ".mdx", "", false},
		{"x.mdx", "", "", false},
	}
	for _, tt := range tests {
		got, ok := FromFilename(tt.name, tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FromFilename(%q, %q) = %q, %v; want %q, %v", tt.name, tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPath(t *testing.T) {
	p, ok := Path("/content/posts", "hello", ".mdx")
	if !ok || p != filepath.Join("/content/posts", "hello.mdx") {
		t.Errorf("Path = %q, %v", p, ok)
	}
	for _, bad := range []string{"", ".", "..", "../etc/passwd", "a/b", `a\b`, "a..b"} {
		if _, ok := Path("/content/posts", bad, ".mdx"); ok {
			t.Errorf("Path accepted %q", bad)
		}
	}
}

func TestAnchor(t *testing.T) {
	tests := map[string]string{
		"Getting Started":     "getting-started",
		"  Two   spaces here": "two-spaces-here",
		"旅行 日记":               "旅行-日记",
		"":                    "",
	}
	for in, want := range tests {
		if got := Anchor(in); got != want {
			t.Errorf("Anchor(%q) = %q, want %q", in, got, want)
		}
	}
}
