package config

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSessionSecret = "carmasy-development-session-secret"
)

// Provider exposes the configuration values the application depends on.
// Handlers and modules depend on this interface rather than on *Config so
// tests can substitute their own values.
type Provider interface {
	GetAppEnv() string
	GetServerAddr() string
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetAssetsDir() string
	GetAssetsManifest() string
	GetEventRateLimit() float64
	GetIDSource() string
	IsDevelopment() bool
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv         string
	ServerAddr     string
	SessionSecret  string
	SessionTTL     time.Duration
	AssetsDir      string
	AssetsManifest string
	EventRateLimit float64
	IDSource       string
}

var _ Provider = (*Config)(nil)

// New loads configuration from environment variables, falling back to
// development defaults for anything that is unset.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", EnvDevelopment),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     getDuration("SESSION_TTL", 30*time.Minute),
		AssetsDir:      os.Getenv("ASSETS_DIR"),
		AssetsManifest: getEnv("ASSETS_MANIFEST", "web/static/build/manifest.json"),
		EventRateLimit: getFloat("EVENT_RATE_LIMIT", 20),
		IDSource:       getEnv("ID_SOURCE", "sequence"),
	}

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		slog.Warn("SESSION_SECRET not set, using the development secret")
		cfg.SessionSecret = devSessionSecret
	}

	return cfg
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required outside development")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	switch c.IDSource {
	case "sequence", "clock":
	default:
		return errors.New("ID_SOURCE must be one of: sequence, clock")
	}
	return nil
}

func (c *Config) GetAppEnv() string { return c.AppEnv }
func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetAssetsDir() string { return c.AssetsDir }
func (c *Config) GetAssetsManifest() string { return c.AssetsManifest }
func (c *Config) GetEventRateLimit() float64 { return c.EventRateLimit }
func (c *Config) GetIDSource() string { return c.IDSource }
func (c *Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("Invalid number in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}
