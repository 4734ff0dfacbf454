package config

import (
	"os"
	"strconv"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Addr       string
	DSN        string
	SessionKey string

	// TitleAsID makes a page's title double as its identifier instead
	// of a generated token. Renaming a page then changes its identity.
	TitleAsID bool

	// Archive snapshots the previous version of a page on every update.
	Archive bool

	TopPage    string // path to the markup file rendered at /
	ErrorPages string // directory of per-status markup files (404.org, ...)
	PDFCSS     string // stylesheet passed to the PDF renderer

	LatestCount   int
	SearchWorkers int
	SearchOrder   string // "lowest" (reference behavior) or "highest"
}

func Load() *Config {
	return &Config{
		Addr:          getEnv("HARROW_ADDR", ":8080"),
		DSN:           getEnv("HARROW_DSN", "harrow.db"),
		SessionKey:    getEnv("HARROW_SESSION_KEY", ""),
		TitleAsID:     getBool("HARROW_TITLE_AS_ID", true),
		Archive:       getBool("HARROW_ARCHIVE", true),
		TopPage:       getEnv("HARROW_TOP_PAGE", "pages/top.org"),
		ErrorPages:    getEnv("HARROW_ERROR_PAGES", "pages/errors"),
		PDFCSS:        getEnv("HARROW_PDF_CSS", "static/common.css"),
		LatestCount:   getInt("HARROW_LATEST_COUNT", 20),
		SearchWorkers: getInt("HARROW_SEARCH_WORKERS", 0),
		SearchOrder:   getEnv("HARROW_SEARCH_ORDER", "lowest"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
