// Package config loads the service configuration from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"gudlft/internal/domain/booking"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	Addr           string        `env:"GUDLFT_ADDR" envDefault:":8080"`
	Env            string        `env:"GUDLFT_ENV" envDefault:"development"`
	Storage        string        `env:"GUDLFT_STORAGE" envDefault:"json"`
	DataDir        string        `env:"GUDLFT_DATA_DIR" envDefault:"data"`
	DBPath         string        `env:"GUDLFT_DB_PATH" envDefault:"gudlft.db"`
	MaxPlaces      int           `env:"GUDLFT_MAX_PLACES" envDefault:"12"`
	PointsPerPlace int           `env:"GUDLFT_POINTS_PER_PLACE" envDefault:"3"`
	CSRFKey        string        `env:"GUDLFT_CSRF_KEY"`
	TrustedOrigins []string      `env:"GUDLFT_TRUSTED_ORIGINS" envSeparator:","`
	ResendKey      string        `env:"GUDLFT_RESEND_KEY"`
	EmailFrom      string        `env:"GUDLFT_EMAIL_FROM" envDefault:"GUDLFT Registration <bookings@gudlft.local>"`
	ReminderAt     string        `env:"GUDLFT_REMINDER_AT" envDefault:"08:00"`
	ReminderWindow time.Duration `env:"GUDLFT_REMINDER_WINDOW" envDefault:"24h"`
	LogLevel       string        `env:"GUDLFT_LOG_LEVEL" envDefault:"info"`
	SlowQueryMs    int           `env:"GUDLFT_SLOW_QUERY_MS" envDefault:"50"`
	SlowRequestMs  int           `env:"GUDLFT_SLOW_REQUEST_MS" envDefault:"200"`
	RateLimit      int           `env:"GUDLFT_RATE_LIMIT" envDefault:"10"`
}

// Load reads an optional dotenv file, then parses and validates the environment.
// Variables already set in the environment win over the dotenv file.
// PRE: dotenvPath may be empty to skip the file
// POST: Returns a validated Config or an error naming the bad setting
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		err := godotenv.Load(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be expressed as defaults.
func (c Config) Validate() error {
	if c.Storage != StorageJSON && c.Storage != StorageSQLite {
		return fmt.Errorf("GUDLFT_STORAGE must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage)
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("booking rules: %w", err)
	}
	if _, _, err := c.ReminderClock(); err != nil {
		return err
	}
	if c.ReminderWindow <= 0 {
		return errors.New("GUDLFT_REMINDER_WINDOW must be positive")
	}
	if c.CSRFKey != "" {
		if _, err := decodeKey(c.CSRFKey); err != nil {
			return err
		}
	} else if c.IsProduction() {
		return errors.New("GUDLFT_CSRF_KEY is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Rules returns the booking rules.
func (c Config) Rules() booking.Rules {
	return booking.Rules{
		MaxPlacesPerBooking: c.MaxPlaces,
		PointsPerPlace:      c.PointsPerPlace,
	}
}

// ReminderClock parses ReminderAt as HH:MM.
func (c Config) ReminderClock() (hour, minute uint, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.ReminderAt))
	if err != nil {
		return 0, 0, fmt.Errorf("GUDLFT_REMINDER_AT must be HH:MM, got %q", c.ReminderAt)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}

// CSRFSecret returns the configured CSRF key, or a random one outside production.
// PRE: Validate has passed
// POST: Returns 32 bytes
func (c Config) CSRFSecret() ([]byte, error) {
	if c.CSRFKey != "" {
		return decodeKey(c.CSRFKey)
	}
	if c.IsProduction() {
		return nil, errors.New("GUDLFT_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("csrf_key_random", "hint", "set GUDLFT_CSRF_KEY so forms survive a restart")
	return key, nil
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, errors.New("GUDLFT_CSRF_KEY must be 64 hex characters (32 bytes)")
	}
	return key, nil
}
