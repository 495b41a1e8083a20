// Package config loads runtime configuration from an optional YAML file and
// CAMPUS_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/example/campus-scheduler/internal/interval"
)

// Config is the root runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "sqlite", or "redis".
	Backend string        `mapstructure:"backend"`
	Timeout time.Duration `mapstructure:"timeout"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// SQLiteConfig configures the embedded SQLite backend.
type SQLiteConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CatalogConfig defines the weekly slot catalog as the day-major cross
// product of Days and Times.
type CatalogConfig struct {
	Days  []string `mapstructure:"days"`
	Times []string `mapstructure:"times"`
}

// DefaultsConfig holds values stamped onto bookings created by batch
// assignment.
type DefaultsConfig struct {
	Faculty                string `mapstructure:"faculty"`
	Department             string `mapstructure:"department"`
	LectureDurationMinutes int    `mapstructure:"lecture_duration_minutes"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

var weekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true,
	"Thursday": true, "Friday": true, "Saturday": true, "Sunday": true,
}

// Load reads configuration from the given file path (optional, pass "" to
// skip) plus CAMPUS_-prefixed environment variables, layered over defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.timeout", 5*time.Second)
	v.SetDefault("storage.sqlite.dsn", "scheduler.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "campus:")

	v.SetDefault("catalog.days", []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"})
	v.SetDefault("catalog.times", []string{"09:00", "11:00", "13:00", "15:00"})

	v.SetDefault("defaults.faculty", "Science")
	v.SetDefault("defaults.department", "General")
	v.SetDefault("defaults.lecture_duration_minutes", 120)

	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Storage.Timeout <= 0 {
		return errors.New("config: storage timeout must be positive")
	}

	if len(c.Catalog.Days) == 0 {
		return errors.New("config: catalog needs at least one day")
	}
	if len(c.Catalog.Times) == 0 {
		return errors.New("config: catalog needs at least one time")
	}
	for _, day := range c.Catalog.Days {
		if !weekdays[day] {
			return fmt.Errorf("config: invalid catalog day %q", day)
		}
	}
	for _, t := range c.Catalog.Times {
		if _, err := interval.ParseWallClock(t); err != nil {
			return fmt.Errorf("config: invalid catalog time %q: %w", t, err)
		}
	}

	if c.Defaults.LectureDurationMinutes <= 0 {
		return errors.New("config: lecture duration must be positive")
	}
	return nil
}
