// Package config provides configuration loading and structs for the site service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve without a system zoneinfo

	"github.com/sikfilm/site/internal/colors"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Colors  ColorsConfig  `yaml:"colors"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Watch   WatchConfig   `yaml:"watch"`
	Site    SiteConfig    `yaml:"site"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ContentConfig locates posts and controls how they are read.
type ContentConfig struct {
	PostsDir       string `yaml:"posts_dir" validate:"required"`
	PublicDir      string `yaml:"public_dir" validate:"required"`
	Extension      string `yaml:"extension" validate:"required,startswith=."`
	WordsPerMinute int    `yaml:"words_per_minute" validate:"min=1"`
	Timezone       string `yaml:"timezone"`
	RelatedLimit   int    `yaml:"related_limit" validate:"min=0"`
	LatestLimit    int    `yaml:"latest_limit" validate:"min=0"`
}

// Location resolves Timezone, falling back to UTC when it is empty or unknown.
func (c ContentConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ColorsConfig holds the extraction heuristic and image fetching settings.
type ColorsConfig struct {
	colors.Params `yaml:",inline"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" validate:"min=0"`
}

// StorageConfig selects where view and reaction counters live.
type StorageConfig struct {
	Backend       string `yaml:"backend" validate:"oneof=sqlite redis"`
	DatabasePath  string `yaml:"database_path" validate:"required_if=Backend sqlite"`
	RedisURL      string `yaml:"redis_url" validate:"required_if=Backend redis"`
	ReactionKinds int    `yaml:"reaction_kinds" validate:"min=1,max=16"`
}

// SearchConfig holds full-text search settings. An empty IndexPath keeps the
// index in memory.
type SearchConfig struct {
	DefaultLimit int    `yaml:"default_limit" validate:"min=1"`
	MaxLimit     int    `yaml:"max_limit" validate:"min=1,gtefield=DefaultLimit"`
	IndexPath    string `yaml:"index_path"`
}

// WatchConfig holds posts directory watch settings.
type WatchConfig struct {
	Enabled  *bool         `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce" validate:"min=0"`
}

// EnabledOrDefault returns whether to watch the posts directory; defaults to true when unset.
func (w *WatchConfig) EnabledOrDefault() bool {
	if w.Enabled != nil {
		return *w.Enabled
	}
	return true
}

// SiteConfig is the static site data served to the rendering layer.
type SiteConfig struct {
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
	URL         string       `yaml:"url" json:"url" validate:"omitempty,url"`
	Language    string       `yaml:"language" json:"language"`
	HeroPhotos  []string     `yaml:"hero_photos" json:"heroPhotos"`
	Projects    []Project    `yaml:"projects" json:"projects" validate:"dive"`
	Resume      []ResumeItem `yaml:"resume" json:"resume" validate:"dive"`
}

// Project is a showcased project.
type Project struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	URL         string `yaml:"url" json:"url" validate:"omitempty,url"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

// ResumeItem is one position in the resume.
type ResumeItem struct {
	Company string `yaml:"company" json:"company" validate:"required"`
	Title   string `yaml:"title" json:"title"`
	Logo    string `yaml:"logo" json:"logo"`
	Start   string `yaml:"start" json:"start"`
	End     string `yaml:"end,omitempty" json:"end,omitempty"`
}

// Load reads and parses the config file at path, applies defaults and environment
// overrides, expands paths and validates the result.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(&cfg, filepath.Dir(path))
}

// Default returns the default configuration with paths relative to baseDir,
// environment overrides applied.
func Default(baseDir string) (*Config, error) {
	return finish(&Config{}, baseDir)
}

func finish(cfg *Config, baseDir string) (*Config, error) {
	ApplyDefaults(cfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Content.PostsDir = expandPath(cfg.Content.PostsDir, baseDir)
	cfg.Content.PublicDir = expandPath(cfg.Content.PublicDir, baseDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, baseDir)
	cfg.Search.IndexPath = expandPath(cfg.Search.IndexPath, baseDir)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path. Used by init-config.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "~/" are relative to
// the home directory; other relative paths are relative to configDir. Empty stays empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	if abs, err := filepath.Abs(filepath.Join(configDir, path)); err == nil {
		return abs
	}
	return filepath.Join(configDir, path)
}
