package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server-level settings. Model settings live in the llm
// package and are loaded separately.
type Config struct {
	Addr     string `env:"ANCHOR_ADDR" envDefault:":8080"`
	DBPath   string `env:"ANCHOR_DB" envDefault:"anchor.db"`
	LogLevel string `env:"ANCHOR_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment, with a .env file taken
// into account when present.
func Load() (Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
