// Package config provides Viper-based configuration loading for focusquest.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for the character store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StorageConfig selects the character store backend.
type StorageConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// SQLiteConfig holds the standalone database file settings.
type SQLiteConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// RedisConfig holds the quest store connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogFileConfig enables a rotated log file alongside stdout.
type LogFileConfig struct {
	// Path is empty when file logging is disabled.
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// ContentConfig locates the static game content.
type ContentConfig struct {
	AreasDir string `mapstructure:"areas_dir"`
}

// SessionConfig controls focus session timing.
type SessionConfig struct {
	// MinuteDuration is the wall-clock length of one session minute.
	MinuteDuration time.Duration `mapstructure:"minute_duration"`
}

// RewardsConfig holds the encounter and progression constants.
type RewardsConfig struct {
	EncounterIntervalMinutes int     `mapstructure:"encounter_interval_minutes"`
	XPPerEnemyLevel          int     `mapstructure:"xp_per_enemy_level"`
	GoldPerEnemyLevel        int     `mapstructure:"gold_per_enemy_level"`
	LuckDropFactor           float64 `mapstructure:"luck_drop_factor"`
	CritMultiplier           float64 `mapstructure:"crit_multiplier"`
	MinHitChance             float64 `mapstructure:"min_hit_chance"`
	MaxHitChance             float64 `mapstructure:"max_hit_chance"`
	XPPerMinute              int     `mapstructure:"xp_per_minute"`
	GoldPerMinute            int     `mapstructure:"gold_per_minute"`
	StatPointsPerLevel       int     `mapstructure:"stat_points_per_level"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Content  ContentConfig  `mapstructure:"content"`
	Session  SessionConfig  `mapstructure:"session"`
	Rewards  RewardsConfig  `mapstructure:"rewards"`
}

// Validate checks all configuration invariants. The database section is only
// checked when it is the selected storage driver.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(validateLogging(c.Logging))
	switch c.Storage.Driver {
	case DriverPostgres:
		add(validateDatabase(c.Database))
	case DriverSQLite:
		add(validateSQLite(c.SQLite))
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be one of [postgres, sqlite], got %q", c.Storage.Driver))
	}
	add(validateRedis(c.Redis))
	if c.Content.AreasDir == "" {
		errs = append(errs, "content.areas_dir must not be empty")
	}
	if c.Session.MinuteDuration <= 0 {
		errs = append(errs, fmt.Sprintf("session.minute_duration must be > 0, got %s", c.Session.MinuteDuration))
	}
	add(validateRewards(c.Rewards))

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joined(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return joined(errs)
}

func validateSQLite(s SQLiteConfig) error {
	var errs []string
	if s.Path == "" {
		errs = append(errs, "sqlite.path must not be empty")
	}
	if s.BusyTimeout < 0 {
		errs = append(errs, "sqlite.busy_timeout must not be negative")
	}
	return joined(errs)
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.PoolSize < 0 {
		errs = append(errs, fmt.Sprintf("redis.pool_size must be >= 0, got %d", r.PoolSize))
	}
	return joined(errs)
}

func validateRewards(r RewardsConfig) error {
	var errs []string
	if r.EncounterIntervalMinutes < 1 {
		errs = append(errs, fmt.Sprintf("rewards.encounter_interval_minutes must be >= 1, got %d", r.EncounterIntervalMinutes))
	}
	if r.XPPerEnemyLevel < 0 || r.GoldPerEnemyLevel < 0 || r.XPPerMinute < 0 || r.GoldPerMinute < 0 {
		errs = append(errs, "rewards xp and gold rates must not be negative")
	}
	if r.LuckDropFactor < 0 {
		errs = append(errs, "rewards.luck_drop_factor must not be negative")
	}
	if r.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("rewards.crit_multiplier must be >= 1, got %g", r.CritMultiplier))
	}
	if r.MinHitChance < 0 || r.MaxHitChance > 100 || r.MinHitChance > r.MaxHitChance {
		errs = append(errs, "rewards hit chance bounds must satisfy 0 <= min_hit_chance <= max_hit_chance <= 100")
	}
	if r.StatPointsPerLevel < 0 {
		errs = append(errs, fmt.Sprintf("rewards.stat_points_per_level must not be negative, got %d", r.StatPointsPerLevel))
	}
	return joined(errs)
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File.Path != "" && l.File.MaxSizeMB < 1 {
		return fmt.Errorf("logging.file.max_size_mb must be >= 1, got %d", l.File.MaxSizeMB)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with FOCUSQUEST_ prefix
	v.SetEnvPrefix("FOCUSQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size_mb", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 28)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("storage.driver", DriverSQLite)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "focusquest")
	v.SetDefault("database.password", "focusquest")
	v.SetDefault("database.name", "focusquest")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("sqlite.path", "focusquest.db")
	v.SetDefault("sqlite.busy_timeout", "5s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("content.areas_dir", "content/areas")
	v.SetDefault("session.minute_duration", "1m")

	v.SetDefault("rewards.encounter_interval_minutes", 5)
	v.SetDefault("rewards.xp_per_enemy_level", 25)
	v.SetDefault("rewards.gold_per_enemy_level", 12)
	v.SetDefault("rewards.luck_drop_factor", 0.01)
	v.SetDefault("rewards.crit_multiplier", 1.5)
	v.SetDefault("rewards.min_hit_chance", 5.0)
	v.SetDefault("rewards.max_hit_chance", 95.0)
	v.SetDefault("rewards.xp_per_minute", 10)
	v.SetDefault("rewards.gold_per_minute", 5)
	v.SetDefault("rewards.stat_points_per_level", 5)
}
