package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the GameSmith server.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Image      ImageConfig
	Matchmaker MatchmakerConfig
	Poll       PollConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type ImageConfig struct {
	Provider          string
	GenerationTimeout time.Duration
	OpenAI            OpenAIConfig
	Stability         StabilityConfig
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type StabilityConfig struct {
	APIKey string
	Model  string
}

type MatchmakerConfig struct {
	Interval time.Duration
}

// PollConfig holds the defaults handed to pollers. The server never times a
// task out on its own; Timeout is the caller-side ceiling on waiting.
type PollConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

var validProviders = map[string]bool{
	"openai":    true,
	"stability": true,
	"mock":      true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("GAMESMITH_PORT", 8080),
			Env:  envString("GAMESMITH_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Image: ImageConfig{
			Provider:          os.Getenv("IMAGE_PROVIDER"),
			GenerationTimeout: envDurationSecs("IMAGE_GENERATION_TIMEOUT_SECS", 120*time.Second),
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  envString("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			},
			Stability: StabilityConfig{
				APIKey: os.Getenv("STABILITY_API_KEY"),
				Model:  envString("STABILITY_MODEL", "sd3.5-large"),
			},
		},
		Matchmaker: MatchmakerConfig{
			Interval: envDuration("MATCHMAKER_INTERVAL", time.Second),
		},
		Poll: PollConfig{
			Interval: envDuration("POLL_INTERVAL", time.Second),
			Timeout:  envDuration("POLL_TIMEOUT", 2*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Image.Provider == "" {
		return fmt.Errorf("IMAGE_PROVIDER is required")
	}
	if !validProviders[c.Image.Provider] {
		return fmt.Errorf("IMAGE_PROVIDER must be one of openai, stability, mock; got %q", c.Image.Provider)
	}

	if c.Image.Provider == "openai" && c.Image.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when IMAGE_PROVIDER is openai")
	}
	if c.Image.Provider == "stability" && c.Image.Stability.APIKey == "" {
		return fmt.Errorf("STABILITY_API_KEY is required when IMAGE_PROVIDER is stability")
	}

	if c.Matchmaker.Interval <= 0 {
		return fmt.Errorf("MATCHMAKER_INTERVAL must be positive")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if c.Poll.Timeout <= c.Poll.Interval {
		return fmt.Errorf("POLL_TIMEOUT must be greater than POLL_INTERVAL")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
