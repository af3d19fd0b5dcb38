// Package config loads and validates application configuration from
// environment variables, with optional .env file support for development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// APIBaseURL is the public base URL of this API, embedded in the
	// confirmation links inside outbound mails. Required.
	APIBaseURL string

	// WebBaseURL is the front-end base URL confirmed trips redirect to. Required.
	WebBaseURL string

	// SMTPAddr is the host:port of the SMTP server.
	// Defaults to "localhost:1025" (MailHog).
	SMTPAddr string

	// SMTPUsername and SMTPPassword enable AUTH PLAIN when both are set.
	// Leave empty for unauthenticated local servers.
	SMTPUsername string
	SMTPPassword string

	// MailFromName and MailFromAddress form the From header of outbound mails.
	MailFromName    string
	MailFromAddress string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables always win over .env entries.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SMTPAddr:        getEnv("SMTP_ADDR", "localhost:1025"),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		MailFromName:    getEnv("MAIL_FROM_NAME", "Plann.er Team"),
		MailFromAddress: getEnv("MAIL_FROM_ADDRESS", "hello@plann.er"),
	}

	var missing []string

	for _, v := range []struct {
		key  string
		dest *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"API_BASE_URL", &cfg.APIBaseURL},
		{"WEB_BASE_URL", &cfg.WebBaseURL},
	} {
		*v.dest = os.Getenv(v.key)
		if *v.dest == "" {
			missing = append(missing, v.key)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
