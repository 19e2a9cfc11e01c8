package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sikfilm/site/internal/config"
	"github.com/sikfilm/site/internal/models"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"autumn in kyoto", "-limit", "3"},
			expected: []string{"-limit", "3", "autumn in kyoto"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-limit", "3", "autumn in kyoto"},
			expected: []string{"-limit", "3", "autumn in kyoto"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"kyoto"},
			expected: []string{"kyoto"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-category", "travel"},
			expected: []string{"-category", "travel", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"kyoto"}, "kyoto"},
		{"multiple words", []string{"autumn", "kyoto"}, "autumn kyoto"},
		{"single quoted phrase", []string{"autumn kyoto"}, "autumn kyoto"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSearchQuery(tt.args); got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
content:
  posts_dir: "posts"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// cwd may be a symlinked temp dir; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if filepath.Base(cfg.Content.PostsDir) != "posts" || !filepath.IsAbs(cfg.Content.PostsDir) {
		t.Errorf("posts dir = %q", cfg.Content.PostsDir)
	}
}

func TestLoadConfig_defaultsWithoutAnyFile(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, resolved, err := loadConfig(defaultConfigPath)
	if _, statErr := os.Stat(defaultConfigPath); statErr == nil {
		t.Skip("a system config exists")
	}
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Content.Extension != ".mdx" || cfg.Server.Port == 0 {
		t.Errorf("defaults not applied: %+v", cfg.Content)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := initConfig(path, false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "posts_dir: ./content/posts") {
		t.Errorf("config should keep relative defaults:\n%s", data)
	}
	if err := initConfig(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := initConfig(path, true); err != nil {
		t.Errorf("overwrite: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Content.WordsPerMinute != 200 {
		t.Errorf("words per minute = %d", cfg.Content.WordsPerMinute)
	}
}

func TestCollectStatus(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "site.db")
	if err := os.WriteFile(db, []byte("12345"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Content: config.ContentConfig{PostsDir: "/srv/posts"},
		Storage: config.StorageConfig{Backend: "sqlite", DatabasePath: db},
	}
	posts := []*models.Post{
		{Slug: "a", MainImage: models.MainImage{URL: "/a.png", Dominant: &models.DominantColors{Background: "#000000", Foreground: "#ffffff"}}},
		{Slug: "b", MainImage: models.MainImage{URL: "/b.png"}},
		{Slug: "c"},
	}
	status, err := collectStatus(cfg, posts)
	if err != nil {
		t.Fatal(err)
	}
	if status.Posts != 3 || status.WithImage != 2 || status.Colored != 1 {
		t.Errorf("status = %+v", status)
	}
	if status.DiskUsageBytes != 5 || status.StorageBackend != "sqlite" {
		t.Errorf("storage = %d %q", status.DiskUsageBytes, status.StorageBackend)
	}
}
