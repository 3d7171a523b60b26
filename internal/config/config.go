// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port        string
	StaticPath  string
	CORSOrigins []string
	// WebhookSecret is the identity provider's "whsec_" signing secret.
	// Empty disables the webhook endpoint.
	WebhookSecret string
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

type AuthConfig struct {
	// Provider is AuthJWT or AuthFirebase.
	Provider            string
	JWTSecret           string
	JWTIssuer           string
	FirebaseCredentials string
}

type RateLimitConfig struct {
	// RedisAddr selects the shared Redis limiter when set.
	RedisAddr     string
	JoinPerMinute int
	JoinBurst     int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			StaticPath:    getEnv("STATIC_PATH", "./static"),
			CORSOrigins:   getEnvAsList("CORS_ORIGINS", []string{"*"}),
			WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:   getEnv("DB_PATH", "./data/tripsplit.db"),
			DSN:    os.Getenv("DB_DSN"),
		},
		Auth: AuthConfig{
			Provider:            strings.ToLower(getEnv("AUTH_PROVIDER", AuthJWT)),
			JWTSecret:           os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer:           os.Getenv("AUTH_JWT_ISSUER"),
			FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			JoinPerMinute: getEnvAsInt("JOIN_RATE_PER_MINUTE", 10),
			JoinBurst:     getEnvAsInt("JOIN_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	} else if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be a number, got %q", c.Server.Port))
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver))
	}

	switch c.Auth.Provider {
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("AUTH_JWT_SECRET is required for the jwt provider"))
		}
	case AuthFirebase:
		if c.Auth.FirebaseCredentials == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_PATH is required for the firebase provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_PROVIDER must be jwt or firebase, got %q", c.Auth.Provider))
	}

	if c.RateLimit.JoinPerMinute < 1 {
		errs = append(errs, errors.New("JOIN_RATE_PER_MINUTE must be at least 1"))
	}
	if c.RateLimit.JoinBurst < 1 {
		errs = append(errs, errors.New("JOIN_RATE_BURST must be at least 1"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
