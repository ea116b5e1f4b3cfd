package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

// EnvPrefix prefixes every environment variable read by Load.
// A double underscore separates nesting levels: DEPOSITFLOW_DATABASE__HOST.
const EnvPrefix = "DEPOSITFLOW_"

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logger   LoggerConfig   `koanf:"logger"`
	Seed     SeedConfig     `koanf:"seed"`
}

type ServerConfig struct {
	Port     string `koanf:"port" validate:"required"`
	APIToken string `koanf:"api_token" validate:"required"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver" validate:"required,oneof=memory postgres"`
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}

type SeedConfig struct {
	Demo bool `koanf:"demo"`
}

var defaults = map[string]interface{}{
	"server.port":       ":8080",
	"server.api_token":  "dev-token",
	"database.driver":   DriverMemory,
	"database.host":     "localhost",
	"database.port":     5432,
	"database.user":     "postgres",
	"database.password": "postgres",
	"database.name":     "depositflow",
	"database.ssl_mode": "disable",
	"logger.level":      "info",
	"logger.pretty":     false,
	"seed.demo":         true,
}

// Load reads defaults, then environment variables (a .env file is loaded first if present)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks struct tags and the postgres connection fields
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Database.Driver == DriverPostgres && c.Database.URL == "" {
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return errors.New("config validation failed: postgres driver needs a url or host, name and user")
		}
	}

	return nil
}

// ConnString returns the lib/pq connection string
func (c *DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
