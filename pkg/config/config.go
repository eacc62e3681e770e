package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// App holds runtime configuration derived from env vars or an optional
// .env file.
type App struct {
	Environment string
	LogLevel    string
	APIPort     string

	DatabaseURL string

	KafkaBrokers    []string
	RedirectTopic   string
	RedirectGroupID string

	CORSOrigins []string

	// SkipPatterns are literal substrings; a 404 whose path contains any
	// of them is never recorded.
	SkipPatterns []string

	RetentionSchedule  string
	RetentionDays      int
	RetentionBatchSize int
}

// FromEnv loads the application configuration from environment variables.
// A .env file in the working directory is honored when present.
func FromEnv() App {
	_ = godotenv.Load()

	return App{
		Environment: envOr("ENVIRONMENT", "production"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		APIPort:     envOr("API_PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers:    envList("KAFKA_BROKERS", "localhost:9092"),
		RedirectTopic:   envOr("REDIRECT_TOPIC", "redirects.created"),
		RedirectGroupID: envOr("REDIRECT_GROUP_ID", "notfound-tracker"),

		CORSOrigins: envList("CORS_ORIGINS", "http://localhost:3000"),

		SkipPatterns: envList("SKIP_PATTERNS", "/admin,/api"),

		RetentionSchedule:  envOr("RETENTION_SCHEDULE", "0 3 * * *"),
		RetentionDays:      envInt("RETENTION_DAYS", 90),
		RetentionBatchSize: envInt("RETENTION_BATCH_SIZE", 1000),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envList(key, fallback string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
