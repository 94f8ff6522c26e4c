package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "BOOKMEMO_"

type Config struct {
	APIURL          string `env:"API_URL" envDefault:"http://localhost:8000"`
	SessionPath     string `env:"SESSION_PATH" envDefault:"/check-login-status"`
	SessionBlocking bool   `env:"SESSION_BLOCKING" envDefault:"false"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile         string `env:"LOG_FILE"`
	Email           string `env:"EMAIL"`
	Password        string `env:"PASSWORD"`
	Dev             Dev    `envPrefix:"DEV_"`
}

// Dev configures the local fake collaborator.
type Dev struct {
	Addr            string        `env:"ADDR" envDefault:":8000"`
	Secret          string        `env:"SECRET" envDefault:"dev-secret"`
	OpenLibrary     bool          `env:"OPENLIBRARY" envDefault:"false"`
	UserAgent       string        `env:"USER_AGENT" envDefault:"bookmemo-devserver/1.0"`
	RPS             int           `env:"RPS" envDefault:"1"`
	SeedBooks       int           `env:"SEED_BOOKS" envDefault:"50"`
	SeedRandom      int64         `env:"SEED_RANDOM" envDefault:"1"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadEnvFiles reads .env and .env.local. Variables already set in the
// process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	LoadEnvFiles()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Dev.RPS <= 0 {
		return nil, fmt.Errorf("parse config: %sDEV_RPS must be positive, got %d", envPrefix, cfg.Dev.RPS)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}
	return cfg
}
