package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/proposals-lambda/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DATABASE_DSN", "host=localhost dbname=proposals")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("USER_LOOKUP_CONCURRENCY", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, config.DriverPostgres, s.StoreDriver)
	assert.Equal(t, "proposals", s.MongoDatabase)
	assert.Equal(t, []string{"*"}, s.CorsAllowedOrigins)
	assert.Equal(t, 8, s.UserLookupConcurrency)
	assert.Equal(t, 30*time.Second, s.ShutdownTimeout)
}

func TestLoadMongo(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	s, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverMongo, s.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.CorsAllowedOrigins)
}

func TestSettingsValidate(t *testing.T) {
	valid := func() *config.Settings {
		return &config.Settings{
			StoreDriver:           config.DriverSQLite,
			DatabaseDSN:           ":memory:",
			MongoDatabase:         "proposals",
			JWTSecret:             "segredo",
			UserLookupConcurrency: 4,
		}
	}

	tests := []struct {
		name    string
		modify  func(*config.Settings)
		wantErr bool
	}{
		{name: "valid", modify: func(s *config.Settings) {}},
		{name: "unknown driver", modify: func(s *config.Settings) { s.StoreDriver = "redis" }, wantErr: true},
		{name: "missing dsn", modify: func(s *config.Settings) { s.DatabaseDSN = "" }, wantErr: true},
		{name: "mongo without uri", modify: func(s *config.Settings) { s.StoreDriver = config.DriverMongo }, wantErr: true},
		{name: "mongo with uri", modify: func(s *config.Settings) {
			s.StoreDriver = config.DriverMongo
			s.MongoURI = "mongodb://localhost"
		}},
		{name: "missing secret", modify: func(s *config.Settings) { s.JWTSecret = "" }, wantErr: true},
		{name: "zero concurrency", modify: func(s *config.Settings) { s.UserLookupConcurrency = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
