package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	ConfigFileEnv, "PORT", "STORE_BACKEND", "POSTGRES_DSN", "MONGO_URI", "MONGO_DATABASE",
	"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "NATS_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "EMAIL_ADDRESS", "PUBLIC_BASE_URL",
	"SESSION_TTL_HOURS", "SESSION_PURGE_INTERVAL_MINUTES", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, "http://localhost:3000", cfg.PublicBaseURL)
}

func TestLoadConfig_BackendFollowsConfiguredStore(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
}

func TestLoadConfig_YAMLOverlayBeneathEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
store_backend: postgres
postgres_dsn: postgres://localhost/storefront
smtp_host: smtp.example.com
smtp_port: 465
email_address: owner@example.com
public_base_url: https://shop.example.com/
session_ttl_hours: 2
`), 0o600))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "postgres://localhost/storefront", cfg.PostgresDSN)
	assert.Equal(t, SMTPConfig{Host: "smtp.example.com", Port: 465}, cfg.SMTP)
	assert.Equal(t, "owner@example.com", cfg.EmailAddress)
	assert.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"backend":        {"STORE_BACKEND": "sqlite"},
		"purge interval": {"SESSION_PURGE_INTERVAL_MINUTES": "0"},
		"session ttl":    {"SESSION_TTL_HOURS": "soon"},
		"half admin":     {"ADMIN_EMAIL": "admin@example.com"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}
