package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Settings struct {
	Port string

	StoreDriver   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	JWTSecret    string
	CookieDomain string

	LogLevel           string
	CorsAllowedOrigins []string

	UserLookupConcurrency int
	ShutdownTimeout       time.Duration
}

// Load reads the settings from the environment, after merging an optional .env file.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Failed to load .env file")
	}

	s := &Settings{
		Port:                  getEnv("PORT", "8080"),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DatabaseDSN:           getEnv("DATABASE_DSN", ""),
		MongoURI:              getEnv("MONGO_URI", ""),
		MongoDatabase:         getEnv("MONGO_DATABASE", "proposals"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		CookieDomain:          getEnv("COOKIE_DOMAIN", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		CorsAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		UserLookupConcurrency: getIntEnv("USER_LOOKUP_CONCURRENCY", 8),
		ShutdownTimeout:       getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	switch s.StoreDriver {
	case DriverPostgres, DriverSQLite:
		if s.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %q", s.StoreDriver)
		}
	case DriverMongo:
		if s.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", s.StoreDriver)
		}
		if s.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE is required for store driver %q", s.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", s.StoreDriver)
	}

	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if s.UserLookupConcurrency <= 0 {
		return fmt.Errorf("USER_LOOKUP_CONCURRENCY must be positive, got %d", s.UserLookupConcurrency)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.Warnf("Invalid integer value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.Warnf("Invalid duration value for %s, using default %v", key, defaultValue)
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
