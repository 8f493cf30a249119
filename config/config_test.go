package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		AppPort:           "8080",
		JWTSecret:         "secret",
		MaxRequestsPerMin: 100,
		DatabaseDriver:    DriverMongo,
		DatabaseURL:       "mongodb://localhost:27017",
		DatabaseName:      "hotelops",
		TxnTimeout:        10 * time.Second,
		NotifyTimeout:     3 * time.Second,
		IdempotencyTTL:    time.Hour,
		WorkerConcurrency: 5,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory driver needs no url", mutate: func(c *Config) { c.DatabaseDriver = DriverMemory; c.DatabaseURL = "" }},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "postgres" }, wantErr: "DATABASE_DRIVER"},
		{name: "mongo without url", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "zero txn timeout", mutate: func(c *Config) { c.TxnTimeout = 0 }, wantErr: "TXN_TIMEOUT"},
		{name: "negative rate", mutate: func(c *Config) { c.MaxRequestsPerMin = -1 }, wantErr: "MAX_REQUESTS_PER_MIN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", DriverMemory)
	t.Setenv("TXN_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Second, cfg.TxnTimeout)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "8080", cfg.AppPort)
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: "https://a.example, https://b.example ,"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
