package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EasyPost API modes.
const (
	ModeProduction = "production"
	ModeTest       = "test"
)

// legacyTestKeyPrefix marks a legacy EASYPOST_API_KEY that is a test key.
const legacyTestKeyPrefix = "EZTK"

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the relational store configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// EasyPost holds the shipping provider configuration.
	EasyPost EasyPostConfig `mapstructure:",squash"`

	// Proxy holds the outbound proxy used for provider calls.
	Proxy ProxyConfig `mapstructure:",squash"`

	// Sync holds reconciliation tuning.
	Sync SyncConfig `mapstructure:",squash"`

	// Shipper is the default sender address for labels and quotes.
	Shipper ShipperConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `mapstructure:"DATABASE_DRIVER" default:"postgres"`
	// URL is the DSN (postgres://... or a sqlite file path).
	URL string `mapstructure:"DATABASE_URL" required:"true"`
}

// RedisConfig holds the optional Redis connection.
type RedisConfig struct {
	// URL in the format redis://[:password@]host[:port][/database]. Empty disables caching and locking.
	URL string `mapstructure:"REDIS_URL"`
	// RateCacheTTLSeconds is how long rate quotes stay cached.
	RateCacheTTLSeconds int `mapstructure:"RATE_CACHE_TTL_SECONDS" default:"600"`
	// SyncLockTTLSeconds bounds how long a sync pass may hold the pass lock.
	SyncLockTTLSeconds int `mapstructure:"SYNC_LOCK_TTL_SECONDS" default:"300"`
}

// RateCacheTTL returns the rate cache TTL as a duration.
func (c RedisConfig) RateCacheTTL() time.Duration {
	return time.Duration(c.RateCacheTTLSeconds) * time.Second
}

// SyncLockTTL returns the pass lock TTL as a duration.
func (c RedisConfig) SyncLockTTL() time.Duration {
	return time.Duration(c.SyncLockTTLSeconds) * time.Second
}

// EasyPostConfig holds both credential sets; Mode selects the active one.
type EasyPostConfig struct {
	// Mode is "production" or "test".
	Mode string `mapstructure:"EASYPOST_MODE" default:"production"`
	// ProductionKey is the production API key (EZAK...).
	ProductionKey string `mapstructure:"EASYPOST_API_KEY_PRODUCTION"`
	// TestKey is the test API key (EZTK...).
	TestKey string `mapstructure:"EASYPOST_API_KEY_TEST"`
	// LegacyKey is the single-key setup kept for older deployments.
	LegacyKey string `mapstructure:"EASYPOST_API_KEY"`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"EASYPOST_BASE_URL" default:"https://api.easypost.com/v2"`
	// TimeoutSeconds bounds every provider round trip.
	TimeoutSeconds int `mapstructure:"EASYPOST_TIMEOUT_SECONDS" default:"30"`
}

// ProductionAPIKey returns the production key, falling back to the legacy key.
func (c EasyPostConfig) ProductionAPIKey() string {
	if c.ProductionKey != "" {
		return c.ProductionKey
	}
	return c.LegacyKey
}

// TestAPIKey returns the test key, falling back to a legacy key only if it is a test key.
func (c EasyPostConfig) TestAPIKey() string {
	if c.TestKey != "" {
		return c.TestKey
	}
	if strings.HasPrefix(c.LegacyKey, legacyTestKeyPrefix) {
		return c.LegacyKey
	}
	return ""
}

// APIKey returns the key for the configured mode.
func (c EasyPostConfig) APIKey() (string, error) {
	var key string
	switch c.Mode {
	case ModeProduction:
		key = c.ProductionAPIKey()
	case ModeTest:
		key = c.TestAPIKey()
	default:
		return "", fmt.Errorf("invalid EASYPOST_MODE %q: must be %q or %q", c.Mode, ModeTest, ModeProduction)
	}
	if key == "" {
		return "", fmt.Errorf("no API key configured for %s environment", c.Mode)
	}
	return key, nil
}

// Timeout returns the per-request timeout.
func (c EasyPostConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EnvironmentInfo describes the configured provider credentials without exposing them.
type EnvironmentInfo struct {
	CurrentEnvironment   string `json:"current_environment"`
	IsProduction         bool   `json:"is_production"`
	ProductionConfigured bool   `json:"production_configured"`
	TestConfigured       bool   `json:"test_configured"`
	ProductionKeyPrefix  string `json:"production_key_prefix,omitempty"`
	TestKeyPrefix        string `json:"test_key_prefix,omitempty"`
}

// Info summarises which credential sets are available.
func (c EasyPostConfig) Info() EnvironmentInfo {
	prod, test := c.ProductionAPIKey(), c.TestAPIKey()
	return EnvironmentInfo{
		CurrentEnvironment:   c.Mode,
		IsProduction:         c.Mode == ModeProduction,
		ProductionConfigured: prod != "",
		TestConfigured:       test != "",
		ProductionKeyPrefix:  keyPrefix(prod),
		TestKeyPrefix:        keyPrefix(test),
	}
}

func keyPrefix(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 10 {
		return key + "..."
	}
	return key[:10] + "..."
}

// ProxyConfig holds the optional outbound proxy.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Host     string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// SyncConfig holds reconciliation settings.
type SyncConfig struct {
	// PageSize caps the provider page fetched by one sync pass.
	PageSize int `mapstructure:"SYNC_PAGE_SIZE" default:"100"`
}

// ShipperConfig is the default "from" address.
type ShipperConfig struct {
	Name    string `mapstructure:"SHIP_FROM_NAME" default:"KeystonedTCG"`
	Street1 string `mapstructure:"SHIP_FROM_STREET1" default:"PO BOX 112"`
	Street2 string `mapstructure:"SHIP_FROM_STREET2"`
	City    string `mapstructure:"SHIP_FROM_CITY" default:"ALBRIGHTSVILLE"`
	State   string `mapstructure:"SHIP_FROM_STATE" default:"PA"`
	Zip     string `mapstructure:"SHIP_FROM_ZIP" default:"18210"`
	Country string `mapstructure:"SHIP_FROM_COUNTRY" default:"US"`
	Phone   string `mapstructure:"SHIP_FROM_PHONE" default:"000-000-0000"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	err := walkFields(&config, func(field reflect.StructField, _ reflect.Value) error {
		key := field.Tag.Get("mapstructure")
		if key == "" {
			return nil
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// walkFields visits every leaf field, descending into squashed structs.
func walkFields(config interface{}, fn func(reflect.StructField, reflect.Value) error) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() == reflect.Struct {
			if err := walkFields(val.Field(i).Addr().Interface(), fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(field, val.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	return walkFields(config, func(field reflect.StructField, value reflect.Value) error {
		if field.Tag.Get("required") == "true" && value.IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
		return nil
	})
}
