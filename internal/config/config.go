package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	ServerPort string

	// Database: sqlite (default), postgres or mysql. Path is
	// used by sqlite, URL by the other two.
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SessionDuration      time.Duration
	StudentTokenSecret   string
	StudentTokenDuration time.Duration

	// Per-request ceiling on store calls; a slow database must
	// not park a request forever.
	RequestTimeout time.Duration

	// Amazon SES (email disabled when FromEmail is empty)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	// OAuth sign-in for parents/admins
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	OAuthRedirectBaseURL string

	Debug bool
}

// Load reads configuration from environment variables with
// sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:           getEnv("PORT", "8080"),
		DatabaseType:         getEnv("DB_TYPE", "sqlite"),
		DatabasePath:         getEnv("DB_PATH", "./brightsteps.db"),
		DatabaseURL:          getEnv("DB_URL", ""),
		MigrationsPath:       getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration:      getEnvDuration("SESSION_DURATION", 24*time.Hour),
		StudentTokenSecret:   getEnv("STUDENT_TOKEN_SECRET", ""),
		StudentTokenDuration: getEnvDuration("STUDENT_TOKEN_DURATION", 12*time.Hour),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:         getEnv("SES_FROM_EMAIL", ""),
		SESFromName:          getEnv("SES_FROM_NAME", "BrightSteps"),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:8080"),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
		Debug:                getEnvBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration reads a duration environment variable (e.g. "30m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
