package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the optional YAML file applied beneath environment variables.
const ConfigFileEnv = "STOREFRONT_CONFIG"

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	StoreBackend      string
	PostgresDSN       string
	MongoURI          string
	MongoDatabase     string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	NATSURL           string

	SMTP          SMTPConfig
	EmailAddress  string
	PublicBaseURL string

	SessionTTL                 time.Duration
	SessionPurgeIntervalMinute int
	AdminEmail                 string
	AdminPassword              string
}

// SMTPConfig is empty when mail should only be logged.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Enabled reports whether an SMTP relay is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// LoadConfig reads the optional YAML file named by STOREFRONT_CONFIG, overlays
// environment variables, applies defaults, and validates basic constraints.
// YAML keys are the environment names in lower case, e.g. postgres_dsn.
func LoadConfig() (Config, error) {
	src, err := newSource(os.Getenv(ConfigFileEnv))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:              src.get("PORT", "8080"),
		PostgresDSN:       src.get("POSTGRES_DSN", ""),
		MongoURI:          src.get("MONGO_URI", ""),
		MongoDatabase:     src.get("MONGO_DATABASE", ""),
		TemporalAddress:   src.get("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: src.get("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(src.get("TEMPORAL_DISABLED", "")),
		NATSURL:           src.get("NATS_URL", ""),
		SMTP: SMTPConfig{
			Host:     src.get("SMTP_HOST", ""),
			Username: src.get("SMTP_USERNAME", ""),
			Password: src.get("SMTP_PASSWORD", ""),
		},
		EmailAddress:  src.get("EMAIL_ADDRESS", ""),
		PublicBaseURL: strings.TrimRight(src.get("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		AdminEmail:    src.get("ADMIN_EMAIL", ""),
		AdminPassword: src.get("ADMIN_PASSWORD", ""),
		SessionTTL:    24 * time.Hour,
	}

	cfg.StoreBackend = strings.ToLower(src.get("STORE_BACKEND", ""))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = defaultBackend(cfg)
	}
	switch cfg.StoreBackend {
	case BackendMemory, BackendPostgres, BackendMongo:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be one of memory, postgres, mongo")
	}

	if port, ok, err := src.positiveInt("SMTP_PORT"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.SMTP.Port = port
	} else if cfg.SMTP.Enabled() {
		cfg.SMTP.Port = 587
	}
	if hours, ok, err := src.positiveInt("SESSION_TTL_HOURS"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if minutes, ok, err := src.positiveInt("SESSION_PURGE_INTERVAL_MINUTES"); err != nil {
		return Config{}, err
	} else if ok {
		cfg.SessionPurgeIntervalMinute = minutes
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return cfg, nil
}

func defaultBackend(cfg Config) string {
	switch {
	case cfg.PostgresDSN != "":
		return BackendPostgres
	case cfg.MongoURI != "":
		return BackendMongo
	default:
		return BackendMemory
	}
}

// source resolves a key from the environment first, then the YAML file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	src := source{file: map[string]string{}}
	path = strings.TrimSpace(path)
	if path == "" {
		return src, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("read %s: %w", ConfigFileEnv, err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return src, fmt.Errorf("parse %s: %w", path, err)
	}
	for key, value := range values {
		if value == nil {
			continue
		}
		src.file[strings.ToUpper(key)] = strings.TrimSpace(fmt.Sprint(value))
	}
	return src, nil
}

func (s source) get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	if val := s.file[key]; val != "" {
		return val
	}
	return fallback
}

func (s source) positiveInt(key string) (int, bool, error) {
	raw := s.get(key, "")
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, true, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
