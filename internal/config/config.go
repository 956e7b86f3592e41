package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Content tree roots
	ContentRoot  string
	ArticlesRoot string

	// Related-programs ranking
	RelatedLimit       int
	RelatedConcurrency int

	// Sitemap / canonical URLs
	SiteBaseURL string

	// HTTP server
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		ContentRoot:  envOr("CONTENT_ROOT", "content/residency"),
		ArticlesRoot: envOr("ARTICLES_ROOT", "markdown/articles"),

		RelatedLimit:       envInt("RELATED_LIMIT", 6),
		RelatedConcurrency: envInt("RELATED_CONCURRENCY", 8),

		SiteBaseURL: envOr("SITE_BASE_URL", "http://localhost:8080"),

		ReadTimeout:  envDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: envDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  envDuration("IDLE_TIMEOUT", 60*time.Second),
	}

	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = 6
	}
	if cfg.RelatedConcurrency <= 0 {
		cfg.RelatedConcurrency = 8
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ContentRoot == "" {
		return fmt.Errorf("CONTENT_ROOT is required")
	}
	if c.ArticlesRoot == "" {
		return fmt.Errorf("ARTICLES_ROOT is required")
	}
	if c.SiteBaseURL == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
