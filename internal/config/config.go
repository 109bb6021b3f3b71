// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Defaults point at the public Little Lemon capstone data set.
const (
	defaultMenuURL   = "https://raw.githubusercontent.com/Meta-Mobile-Developer-PC/Working-With-Data-API/main/capstone.json"
	defaultImageBase = "https://github.com/Meta-Mobile-Developer-PC/Working-With-Data-API/blob/main/images"
)

type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// MenuURL is the remote menu document fetched on first run.
	MenuURL string

	// ImageBaseURL is the base path item image filenames resolve against.
	ImageBaseURL string

	// FetchTimeout bounds the remote menu fetch.
	FetchTimeout time.Duration
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout := 10 * time.Second
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		fetchTimeout = d
	}

	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		DBPath:       getEnv("DB_PATH", "./data/littlelemon.db"),
		MenuURL:      getEnv("MENU_URL", defaultMenuURL),
		ImageBaseURL: getEnv("IMAGE_BASE_URL", defaultImageBase),
		FetchTimeout: fetchTimeout,
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
