// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/meals"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

// Environment variable names.
const (
	EnvLogLevel        = "LOCALHEALTH_LOG_LEVEL"
	EnvMealDataset     = "LOCALHEALTH_MEAL_DATASET"
	EnvSuggestionCount = "LOCALHEALTH_SUGGESTION_COUNT"
	EnvStoreLimit      = "LOCALHEALTH_STORE_LIMIT"
	EnvHomeLat         = "LOCALHEALTH_HOME_LAT"
	EnvHomeLon         = "LOCALHEALTH_HOME_LON"
	EnvJWTSecret       = "LOCALHEALTH_JWT_SECRET"
	EnvTokenTTL        = "LOCALHEALTH_TOKEN_TTL"
	EnvAuthRPS         = "LOCALHEALTH_AUTH_RPS"
	EnvAuthBurst       = "LOCALHEALTH_AUTH_BURST"
	EnvConsentFile     = "LOCALHEALTH_CONSENT_FILE"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvSessionCapacity = "LOCALHEALTH_SESSION_CAPACITY"
)

// Config holds all runtime settings.
type Config struct {
	LogLevel        slog.Level
	MealDataset     int
	SuggestionCount int
	StoreLimit      int
	// Home is the position reported to locate_stores_auto; nil means
	// no position source.
	Home            *geo.Coordinate
	JWTSecret       string
	TokenTTL        time.Duration
	AuthRPS         float64
	AuthBurst       int
	ConsentFile     string
	DatabaseURL     string
	SessionCapacity int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:        slog.LevelInfo,
		MealDataset:     meals.LatestVersion,
		SuggestionCount: meals.DefaultSuggestionCount,
		StoreLimit:      stores.DefaultLimit,
		TokenTTL:        time.Hour,
		AuthRPS:         0.2,
		AuthBurst:       5,
		SessionCapacity: session.DefaultCapacity,
	}
}

// AuthEnabled reports whether accounts can be used.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

// Load reads the given .env files, or ./.env when none are named, and then
// the process environment. Only an explicitly named file must exist.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, typically os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	intVar := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	floatVar := func(key string, dst *float64) bool {
		v, ok := get(key)
		if !ok {
			return false
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return false
		}
		*dst = f
		return true
	}

	if v, ok := get(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		}
	}
	intVar(EnvMealDataset, &cfg.MealDataset)
	intVar(EnvSuggestionCount, &cfg.SuggestionCount)
	intVar(EnvStoreLimit, &cfg.StoreLimit)
	intVar(EnvAuthBurst, &cfg.AuthBurst)
	intVar(EnvSessionCapacity, &cfg.SessionCapacity)
	floatVar(EnvAuthRPS, &cfg.AuthRPS)

	var home geo.Coordinate
	hasLat := floatVar(EnvHomeLat, &home.Latitude)
	hasLon := floatVar(EnvHomeLon, &home.Longitude)
	switch {
	case hasLat && hasLon:
		cfg.Home = &home
	case hasLat != hasLon:
		errs = append(errs, fmt.Errorf("%s and %s must be set together", EnvHomeLat, EnvHomeLon))
	}

	if v, ok := get(EnvTokenTTL); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTokenTTL, err))
		} else {
			cfg.TokenTTL = d
		}
	}
	if v, ok := get(EnvJWTSecret); ok {
		cfg.JWTSecret = v
	}
	if v, ok := get(EnvConsentFile); ok {
		cfg.ConsentFile = v
	}
	if v, ok := get(EnvDatabaseURL); ok {
		cfg.DatabaseURL = v
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.MealDataset < 1 || c.MealDataset > meals.LatestVersion {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d, got %d", EnvMealDataset, meals.LatestVersion, c.MealDataset))
	}
	if c.SuggestionCount <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSuggestionCount, c.SuggestionCount))
	}
	if c.StoreLimit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvStoreLimit, c.StoreLimit))
	}
	if c.Home != nil && !c.Home.InRange() {
		errs = append(errs, fmt.Errorf("home position %s is out of range", c.Home))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvTokenTTL, c.TokenTTL))
	}
	if c.AuthRPS < 0 || c.AuthBurst < 0 {
		errs = append(errs, fmt.Errorf("%s and %s must not be negative", EnvAuthRPS, EnvAuthBurst))
	}
	if c.SessionCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSessionCapacity, c.SessionCapacity))
	}
	return errors.Join(errs...)
}
