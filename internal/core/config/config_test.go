package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "SERVER_PORT",
	"DATABASE_DRIVER", "DATABASE_URL",
	"REDIS_URL", "RATE_CACHE_TTL_SECONDS",
	"EASYPOST_MODE", "EASYPOST_API_KEY_PRODUCTION", "EASYPOST_API_KEY_TEST", "EASYPOST_API_KEY",
	"SYNC_PAGE_SIZE", "PROXY_ENABLED", "PROXY_HOST", "PROXY_PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range managedKeys {
			os.Unsetenv(k)
		}
	})
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("DATABASE_URL", "postgres://localhost/shipping_db")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ModeProduction, cfg.EasyPost.Mode)
	assert.Equal(t, "https://api.easypost.com/v2", cfg.EasyPost.BaseURL)
	assert.Equal(t, 100, cfg.Sync.PageSize)
	assert.Equal(t, 10*time.Minute, cfg.Redis.RateCacheTTL())
	assert.Equal(t, "KeystonedTCG", cfg.Shipper.Name)
	assert.False(t, cfg.Proxy.Enabled)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("DATABASE_DRIVER", "sqlite")
	os.Setenv("DATABASE_URL", "/tmp/shipdesk.db")
	os.Setenv("EASYPOST_MODE", "test")
	os.Setenv("EASYPOST_API_KEY_TEST", "EZTK123456789abc")
	os.Setenv("SYNC_PAGE_SIZE", "50")
	os.Setenv("PROXY_ENABLED", "true")
	os.Setenv("PROXY_HOST", "proxy.local")
	os.Setenv("PROXY_PORT", "3128")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/shipdesk.db", cfg.Database.URL)
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "proxy.local", cfg.Proxy.Host)
	assert.Equal(t, 3128, cfg.Proxy.Port)

	key, err := cfg.EasyPost.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "EZTK123456789abc", key)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
DATABASE_URL=postgres://staging/shipping_db
EASYPOST_API_KEY_PRODUCTION=EZAKstaging000
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "postgres://staging/shipping_db", cfg.Database.URL)
	assert.Equal(t, "EZAKstaging000", cfg.EasyPost.ProductionKey)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration: DATABASE_URL")
}

func TestEasyPostConfig_APIKey(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EasyPostConfig
		want    string
		wantErr string
	}{
		{
			name: "production key",
			cfg:  EasyPostConfig{Mode: ModeProduction, ProductionKey: "EZAKprod", LegacyKey: "EZAKlegacy"},
			want: "EZAKprod",
		},
		{
			name: "production falls back to legacy",
			cfg:  EasyPostConfig{Mode: ModeProduction, LegacyKey: "EZAKlegacy"},
			want: "EZAKlegacy",
		},
		{
			name: "test key",
			cfg:  EasyPostConfig{Mode: ModeTest, TestKey: "EZTKtest"},
			want: "EZTKtest",
		},
		{
			name: "test falls back to legacy test key",
			cfg:  EasyPostConfig{Mode: ModeTest, LegacyKey: "EZTKlegacy"},
			want: "EZTKlegacy",
		},
		{
			name:    "test ignores legacy production key",
			cfg:     EasyPostConfig{Mode: ModeTest, LegacyKey: "EZAKlegacy"},
			wantErr: "no API key configured for test environment",
		},
		{
			name:    "invalid mode",
			cfg:     EasyPostConfig{Mode: "staging", ProductionKey: "EZAKprod"},
			wantErr: "invalid EASYPOST_MODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.cfg.APIKey()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestEasyPostConfig_Info(t *testing.T) {
	cfg := EasyPostConfig{Mode: ModeTest, ProductionKey: "EZAK0123456789xyz", TestKey: "EZTK0123456789abc"}

	info := cfg.Info()

	assert.Equal(t, ModeTest, info.CurrentEnvironment)
	assert.False(t, info.IsProduction)
	assert.True(t, info.ProductionConfigured)
	assert.True(t, info.TestConfigured)
	assert.Equal(t, "EZAK012345...", info.ProductionKeyPrefix)
	assert.Equal(t, "EZTK012345...", info.TestKeyPrefix)
}
