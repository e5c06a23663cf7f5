// Package config loads server configuration from the environment and
// the channel seed file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all server configuration. Values come from the
// process environment, optionally topped up from a .env file.
type Config struct {
	AppHost string `env:"APP_HOST" envDefault:"127.0.0.1"`
	AppPort int    `env:"APP_PORT" envDefault:"80"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ReadDB  Database `envPrefix:"READ_DB_"`
	WriteDB Database `envPrefix:"WRITE_DB_"`

	RedisHost string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`

	RestrictionMessage string `env:"RESTRICTION_MESSAGE" envDefault:"Your account is currently in restricted mode."`
	FrozenMessage      string `env:"FROZEN_MESSAGE" envDefault:"Your account is currently frozen, and will be restricted in {time_until_restriction}."`

	ChannelSeedPath string `env:"CHANNEL_SEED_PATH" envDefault:"channels.yaml"`
	GeoIPPath       string `env:"GEOIP_DB_PATH"`
	OUICachePath    string `env:"OUI_CACHE_PATH" envDefault:"oui.csv"`
}

// Database holds PostgreSQL connection parameters.
type Database struct {
	User string `env:"USER" envDefault:"herbert"`
	Pass string `env:"PASS" envDefault:"herbert"`
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PORT" envDefault:"5432"`
	Name string `env:"NAME" envDefault:"herbert"`
}

// DSN returns the PostgreSQL connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=prefer",
		d.User, d.Pass, d.Host, d.Port, d.Name,
	)
}

// RedisDSN returns the Redis connection string.
func (c Config) RedisDSN() string {
	return fmt.Sprintf("redis://%s:%d", c.RedisHost, c.RedisPort)
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.AppHost, c.AppPort)
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
