package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ID_STRATEGY_SEQUENCE = "sequence"
	ID_STRATEGY_UUID     = "uuid"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"4000"`
	SchemaPath      string        `env:"SCHEMA_PATH"`
	IDStrategy      string        `env:"ID_STRATEGY" envDefault:"sequence"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	WSInitTimeout   time.Duration `env:"WS_INIT_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// Optional connectors, disabled when the URL is empty.
	RedisURL          string `env:"REDIS_URL"`
	ActivityMaxNumber int    `env:"ACTIVITY_MAX_NUMBER" envDefault:"3"`
	ElasticURL        string `env:"ELASTIC_URL"`
	ElasticIndex      string `env:"ELASTIC_INDEX" envDefault:"books"`
	NatsURL           string `env:"NATS_URL"`
}

// LoadConfig reads .env files when present and parses the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.IDStrategy {
	case ID_STRATEGY_SEQUENCE, ID_STRATEGY_UUID:
	default:
		return fmt.Errorf("unknown id strategy %q, expected %q or %q", c.IDStrategy, ID_STRATEGY_SEQUENCE, ID_STRATEGY_UUID)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.ActivityMaxNumber <= 0 {
		return fmt.Errorf("ACTIVITY_MAX_NUMBER must be positive, got %d", c.ActivityMaxNumber)
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
