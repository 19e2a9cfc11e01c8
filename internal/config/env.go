package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvPostsDir       = "SIKFILM_POSTS_DIR"
	EnvPublicDir      = "SIKFILM_PUBLIC_DIR"
	EnvStorageBackend = "SIKFILM_STORAGE_BACKEND"
	EnvRedisURL       = "SIKFILM_REDIS_URL"
	EnvPort           = "SIKFILM_PORT"
	EnvDebug          = "SIKFILM_DEBUG"
)

// LoadDotEnv reads the given .env files (default ".env") into the process
// environment. Variables already set win. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with any SIKFILM_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPostsDir); v != "" {
		cfg.Content.PostsDir = v
	}
	if v := os.Getenv(EnvPublicDir); v != "" {
		cfg.Content.PublicDir = v
	}
	if v := os.Getenv(EnvStorageBackend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}
	return nil
}
