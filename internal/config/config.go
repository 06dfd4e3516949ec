// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Catalog backend selectors.
const (
	CatalogFile     = "file"
	CatalogPostgres = "postgres"
)

// Auth backend selectors.
const (
	AuthMemory = "memory"
	AuthJWT    = "jwt"
	AuthRedis  = "redis"
)

// Upload backend selectors.
const (
	UploadNone       = "none"
	UploadS3         = "s3"
	UploadCloudinary = "cloudinary"
)

// Admin is one entry of the fixed admin list loaded at startup.
// Password may be a bcrypt hash or a plaintext value.
type Admin struct {
	Username string
	Password string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Backend selection
	CatalogBackend string // "file" or "postgres"
	AuthMode       string // "memory", "jwt" or "redis"
	UploadBackend  string // "s3", "cloudinary" or "none"

	// Admin accounts and token policy
	Admins    []Admin
	JWTSecret string
	TokenTTL  time.Duration // 0 means tokens never expire

	// File catalog
	DataDir string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible) token store
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Cloudinary
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryFolder string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present. Returns an error if critical values are
// missing in production mode.
func Load() (*Config, error) {
	// Missing .env is fine — containers set real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		CatalogBackend: envOrDefault("CATALOG_BACKEND", CatalogFile),
		AuthMode:       envOrDefault("AUTH_MODE", AuthMemory),
		UploadBackend:  envOrDefault("UPLOAD_BACKEND", UploadNone),

		JWTSecret: envOrDefault("JWT_SECRET", "changeme"),

		DataDir: envOrDefault("DATA_DIR", "data"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "recettes"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "recettes"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		CloudinaryCloud:  os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder: envOrDefault("CLOUDINARY_FOLDER", "recettes"),
	}

	if hours := os.Getenv("TOKEN_TTL_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS %q", hours)
		}
		cfg.TokenTTL = time.Duration(n) * time.Hour
	}

	// The admin list mirrors the historical single-admin setup: ADMIN_PASSWORD
	// is the original account, ADMIN2_PASSWORD adds a second one if set.
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		cfg.Admins = append(cfg.Admins, Admin{
			Username: envOrDefault("ADMIN_USERNAME", "admin1"),
			Password: pw,
		})
	}
	if pw := os.Getenv("ADMIN2_PASSWORD"); pw != "" {
		cfg.Admins = append(cfg.Admins, Admin{
			Username: envOrDefault("ADMIN2_USERNAME", "admin2"),
			Password: pw,
		})
	}

	switch cfg.CatalogBackend {
	case CatalogFile, CatalogPostgres:
	default:
		return nil, fmt.Errorf("unknown CATALOG_BACKEND %q", cfg.CatalogBackend)
	}
	switch cfg.AuthMode {
	case AuthMemory, AuthJWT, AuthRedis:
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}
	switch cfg.UploadBackend {
	case UploadNone, UploadS3, UploadCloudinary:
	default:
		return nil, fmt.Errorf("unknown UPLOAD_BACKEND %q", cfg.UploadBackend)
	}

	if cfg.Env == "production" {
		if len(cfg.Admins) == 0 {
			return nil, fmt.Errorf("ADMIN_PASSWORD must be set in production")
		}
		if cfg.AuthMode == AuthJWT && cfg.JWTSecret == "changeme" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.CatalogBackend == CatalogPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
