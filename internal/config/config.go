package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendLocal = "local"
	BackendSQL   = "sql"

	BlobFile = "file"
	BlobS3   = "s3"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Persistence: "sql" for the shared database, "local" for per-user blobs
	Backend      string
	DBDriver     string
	DBConnection string

	// Local blob storage
	BlobDriver string
	BlobDir    string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3Prefix    string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Observability (optional)
	SentryDSN string

	// Email
	ResendAPIKey string
	EmailFrom    string

	// Display
	Locale         string
	Currency       string
	CurrencySymbol string

	// Default monthly rates used when there is no contribution history
	ConservativeFallback float64
	AmbitiousFallback    float64

	// Identity used by the local backend and the CLI
	LocalUserEmail string
}

func Load() *Config {
	LoadDotEnv()

	cfg := FromEnv()

	err := cfg.Validate()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// LoadDotEnv loads .env into the environment if the file exists.
func LoadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
}

// FromEnv reads the configuration from the environment without validating it.
func FromEnv() *Config {
	return &Config{
		// Application
		AppName: envString("APP_NAME", "Ahorros"),
		AppEnv:  envString("APP_ENV", "development"),
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Persistence
		Backend:      envString("BACKEND", BackendSQL),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/ahorros.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		BlobDriver: envString("BLOB_DRIVER", BlobFile),
		BlobDir:    envString("BLOB_DIR", "./data/local"),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3Prefix:    envString("S3_PREFIX", "ahorros/"),

		// Security
		JWTSecret: envString("JWT_SECRET", ""),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Email
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		EmailFrom:    envString("EMAIL_FROM", "Ahorros <hola@ahorros.local>"),

		// Display
		Locale:         envString("LOCALE", "es-AR"),
		Currency:       envString("CURRENCY", "USD"),
		CurrencySymbol: envString("CURRENCY_SYMBOL", "US$"),

		ConservativeFallback: envFloat("CONSERVATIVE_FALLBACK", 200),
		AmbitiousFallback:    envFloat("AMBITIOUS_FALLBACK", 500),

		LocalUserEmail: envString("LOCAL_USER_EMAIL", "local@ahorros.local"),
	}
}

// Validate checks option values and the settings each backend depends on.
func (c *Config) Validate() error {
	switch c.AppEnv {
	case "development", "production":
	default:
		return fmt.Errorf("APP_ENV must be development or production, got %q", c.AppEnv)
	}

	switch c.Backend {
	case BackendSQL:
		if c.DBDriver != "sqlite" && c.DBDriver != "pgx" {
			return fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver)
		}
		if c.DBConnection == "" {
			return fmt.Errorf("DB_CONNECTION is required for the sql backend")
		}
	case BackendLocal:
	default:
		return fmt.Errorf("BACKEND must be local or sql, got %q", c.Backend)
	}

	switch c.BlobDriver {
	case BlobFile:
		if c.Backend == BackendLocal && c.BlobDir == "" {
			return fmt.Errorf("BLOB_DIR is required for the file blob driver")
		}
	case BlobS3:
		if c.S3Region == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_REGION and S3_BUCKET are required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("BLOB_DRIVER must be file or s3, got %q", c.BlobDriver)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.ConservativeFallback <= 0 || c.AmbitiousFallback <= 0 {
		return fmt.Errorf("fallback rates must be greater than zero")
	}

	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid number, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DevSecret returns the JWT secret, falling back to a fixed value outside
// production so development works without setup.
func (c *Config) DevSecret() string {
	if c.JWTSecret == "" && !c.IsProduction() {
		return "ahorros-development-secret"
	}
	return c.JWTSecret
}

// Sanitized returns a copy of the config without secrets or credentials.
// Safe to put in request contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:        c.AppName,
		AppEnv:         c.AppEnv,
		AppURL:         c.AppURL,
		Port:           c.Port,
		Backend:        c.Backend,
		GoogleClientID: c.GoogleClientID,
		Locale:         c.Locale,
		Currency:       c.Currency,
		CurrencySymbol: c.CurrencySymbol,
	}
}
