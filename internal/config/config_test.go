package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "config-test-signing-secret-32-bytes!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []byte(testSecret), cfg.Auth.SigningSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Auth.CredentialCacheTTL)
	assert.Equal(t, "authcore", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_SIGNING_SECRET", testSecret)
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("AUTH_CREDENTIAL_CACHE_TTL", "0")
	t.Setenv("AUTH_BCRYPT_COST", "10")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Zero(t, cfg.Auth.CredentialCacheTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_FailsFast(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"AUTH_SIGNING_SECRET": ""},
			wantErr: ErrMissingSigningSecret,
		},
		{
			name:    "short secret",
			env:     map[string]string{"AUTH_SIGNING_SECRET": "too-short"},
			wantErr: ErrShortSigningSecret,
		},
		{
			name: "unparseable ttl",
			env:  map[string]string{"AUTH_SIGNING_SECRET": testSecret, "AUTH_TOKEN_TTL": "one day"},
		},
		{
			name: "sub-second ttl",
			env:  map[string]string{"AUTH_SIGNING_SECRET": testSecret, "AUTH_TOKEN_TTL": "10ms"},
		},
		{
			name: "bad redis db",
			env:  map[string]string{"AUTH_SIGNING_SECRET": testSecret, "REDIS_DB": "primary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
