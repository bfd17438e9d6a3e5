package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port          string
	Environment   string
	PublicBaseURL string

	// Database
	DatabaseURL  string
	SeedDemoData bool

	// Session
	SessionSecret   string
	SessionTTLHours int

	// Shared credentials
	AdminPassword string
	AgentPasscode string

	// Storage
	StorageProvider     string
	StoragePath         string
	GCSBucket           string
	GCSCredentialsJSON  string
	SignedURLTTLSeconds int

	// Background Workers
	WorkerCount int
	AuditAsync  bool

	// CORS
	AllowedOrigins []string

	// Rate limiting
	RedisURL       string
	LoginRateLimit int

	// Sentry
	SentryDSN string
}

// Storage providers
const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SeedDemoData:        getEnvAsBool("SEED_DEMO_DATA", false),
		SessionSecret:       getEnv("SESSION_SECRET", ""),
		SessionTTLHours:     getEnvAsInt("SESSION_TTL_HOURS", 24*7),
		AdminPassword:       getEnv("ADMIN_PASSWORD", ""),
		AgentPasscode:       getEnv("AGENT_PASSCODE", ""),
		StorageProvider:     strings.ToLower(getEnv("STORAGE_PROVIDER", StorageProviderLocal)),
		StoragePath:         getEnv("STORAGE_PATH", "./storage"),
		GCSBucket:           getEnv("GCS_BUCKET", ""),
		GCSCredentialsJSON:  getEnv("GCS_CREDENTIALS_JSON", ""),
		SignedURLTTLSeconds: getEnvAsInt("SIGNED_URL_TTL_SECONDS", 60),
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 2),
		AuditAsync:          getEnvAsBool("AUDIT_ASYNC", true),
		AllowedOrigins:      getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RedisURL:            getEnv("REDIS_URL", ""),
		LoginRateLimit:      getEnvAsInt("LOGIN_RATE_LIMIT", 10),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.StorageProvider {
	case StorageProviderLocal:
	case StorageProviderGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_PROVIDER=gcs")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q", c.StorageProvider)
	}

	if c.IsProduction() {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		if c.AdminPassword == "" || c.AgentPasscode == "" {
			return fmt.Errorf("ADMIN_PASSWORD and AGENT_PASSCODE are required in production")
		}
		return nil
	}

	// Development defaults
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-secret-change-in-production"
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "admin123"
	}
	if c.AgentPasscode == "" {
		c.AgentPasscode = "agent123"
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SessionTTL is the lifetime of an issued session credential.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// SignedURLTTL is the lifetime of document download links.
func (c *Config) SignedURLTTL() time.Duration {
	return time.Duration(c.SignedURLTTLSeconds) * time.Second
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
