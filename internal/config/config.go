package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	DiscordToken          string        `env:"DISCORD_TOKEN,required"`
	StoragePath           string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	AudioBaseURL          string        `env:"AUDIO_BASE_URL" envDefault:"https://quranaudio.pages.dev"`
	ReciterID             int           `env:"RECITER_ID" envDefault:"1"`
	FetchTimeout          time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`
	FetchRetries          int           `env:"FETCH_RETRIES" envDefault:"3"`
	InitSlashCommands     bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	DiscordGuildBlacklist []string      `env:"DISCORD_GUILD_BLACKLIST"`
}

// New loads .env (if present) and parses the environment into a Config.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
