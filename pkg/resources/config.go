package resources

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"APP_ENV":              "local",
	"LOG_LEVEL":            "info",
	"HTTP_HOST":            "localhost",
	"HTTP_PORT":            "8080",
	"DEBUG_PORT":           "6060",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "postgres",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_NAME":              "backoffice",
	"DIARY_BACKEND":        "postgres",
	"DIARY_API_URL":        "http://localhost:9090/api/v1",
	"DIARY_API_TIMEOUT":    10 * time.Second,
	"DIARY_API_TOKEN":      "",
	"DIARY_TIMEZONE":       "Europe/London",
	"FORMS_STORE":          "memory",
	"FORMS_TTL":            2 * time.Hour,
	"REDIS_URL":            "redis://localhost:6379/0",
	"AUTH_REQUIRED":        false,
	"AUTH_JWT_SECRET":      "",
	"CORS_ALLOWED_ORIGINS": "*",
	"OTEL_ENDPOINT":        "localhost:4317",
	"OTEL_ENABLED":         false,
}

// Default loads .env (when present) and the environment into viper, then configures the global
// logger. The returned context carries that logger.
func Default(ctx context.Context, name string, version string, env string) context.Context {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	if env == "" {
		env = viper.GetString("APP_ENV")
	}

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(os.Stdout)
	if env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	log.Logger = logger.With().Timestamp().
		Str("service", name).Str("version", version).Str("env", env).
		Logger()

	return log.Logger.WithContext(ctx)
}

// Location returns the diary time zone, falling back to UTC when it cannot be loaded.
func Location() *time.Location {
	name := viper.GetString("DIARY_TIMEZONE")

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown diary time zone, using UTC")
		return time.UTC
	}

	return loc
}
