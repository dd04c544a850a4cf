package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Gemini    GeminiConfig    `yaml:"gemini"`
	Store     StoreConfig     `yaml:"store"`
	SiteFetch SiteFetchConfig `yaml:"site_fetch"`
}

type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	TextModel  string `yaml:"text_model"`
	ImageModel string `yaml:"image_model"`
}

// StoreConfig selects where the campaign state is persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"` // file, sqlite, redis, postgres
	Key    string `yaml:"key"`

	StatePath     string `yaml:"state_path"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	PostgresURL   string `yaml:"postgres_url"`
}

type SiteFetchConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Gemini: GeminiConfig{
			TextModel:  "gemini-3-flash-preview",
			ImageModel: "gemini-2.5-flash-image",
		},
		Store: StoreConfig{
			Driver:     "file",
			Key:        "adcraft_state_v1",
			StatePath:  "./data/adcraft_state.json",
			SQLitePath: "./data/adcraft.db",
			RedisAddr:  "localhost:6379",
		},
		SiteFetch: SiteFetchConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order. A .env file in the working directory is loaded
// first if present. path may be empty; ADCRAFT_CONFIG is used then.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("ADCRAFT_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file %s not found", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	// API_KEY is accepted for compatibility with the browser build.
	c.Gemini.APIKey = getEnv("API_KEY", c.Gemini.APIKey)
	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.TextModel = getEnv("GEMINI_TEXT_MODEL", c.Gemini.TextModel)
	c.Gemini.ImageModel = getEnv("GEMINI_IMAGE_MODEL", c.Gemini.ImageModel)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Key = getEnv("STATE_KEY", c.Store.Key)
	c.Store.StatePath = getEnv("STATE_PATH", c.Store.StatePath)
	c.Store.SQLitePath = getEnv("SQLITE_PATH", c.Store.SQLitePath)
	c.Store.RedisAddr = getEnv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvAsInt("REDIS_DB", c.Store.RedisDB)
	c.Store.PostgresURL = getEnv("POSTGRES_URL", c.Store.PostgresURL)

	c.SiteFetch.Enabled = getEnvAsBool("SITE_FETCH", c.SiteFetch.Enabled)
	if secs := getEnvAsInt("SITE_FETCH_TIMEOUT_SECONDS", 0); secs > 0 {
		c.SiteFetch.Timeout = time.Duration(secs) * time.Second
	}
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "file", "sqlite", "redis":
	case "postgres":
		if c.Store.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Key == "" {
		return errors.New("state key must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
