package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv unsets every variable Load reads so the host environment cannot
// leak into a test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  static_dir: "./web"
  allowed_origins:
    - "https://cinemahub.example"
  mutation_timeout: "3s"

database:
  driver: postgres
  url: "postgres://localhost/cinemahub"

auth:
  jwt_secret: "`+testSecret+`"
  issuer: "test-issuer"
  verify_subject: false
  token_ttl: "24h"

password:
  memory_kib: 19456
  iterations: 2
  parallelism: 1
  max_concurrent: 4

catalog:
  cache_size: 50
  cache_ttl: "30s"

logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "./web", cfg.Server.StaticDir)
	assert.Equal(t, []string{"https://cinemahub.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.MutationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://localhost/cinemahub", cfg.Database.URL)
	assert.Equal(t, "test-issuer", cfg.Auth.Issuer)
	assert.False(t, cfg.Auth.VerifySubject)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, uint32(19456), cfg.Password.Memory)
	assert.Equal(t, int64(4), cfg.Password.MaxConcurrent)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.Equal(t, 50, cfg.Catalog.CacheSize)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	path := writeConfig(t, "database:\n  driver: memory\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "cinemahub", cfg.Auth.Issuer)
	assert.True(t, cfg.Auth.VerifySubject)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://db/cinemahub")
	t.Setenv("PORT", "3000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "postgres://db/cinemahub", cfg.Database.URL)
}

func TestLoad_EnvExpansion(t *testing.T) {
	clearEnv(t)
	t.Setenv("CINEMAHUB_TEST_SECRET", testSecret)
	path := writeConfig(t, `
database:
  driver: memory
auth:
  jwt_secret: "${CINEMAHUB_TEST_SECRET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "ffffffffffffffffffffffffffffffff")
	t.Setenv("LOG_LEVEL", "warn")
	path := writeConfig(t, `
database:
  driver: memory
auth:
  jwt_secret: "`+testSecret+`"
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ffffffffffffffffffffffffffffffff", cfg.Auth.JWTSecret)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			content: "database:\n  driver: memory\n",
			wantErr: "auth.jwt_secret is required",
		},
		{
			name:    "short secret",
			content: "database:\n  driver: memory\nauth:\n  jwt_secret: short\n",
			wantErr: "at least 32 characters",
		},
		{
			name:    "postgres without url",
			content: "auth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "database.url is required",
		},
		{
			name:    "unknown driver",
			content: "database:\n  driver: sqlite\nauth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "database.driver",
		},
		{
			name:    "bad duration",
			content: "database:\n  driver: memory\nauth:\n  jwt_secret: " + testSecret + "\n  token_ttl: forever\n",
			wantErr: "auth.token_ttl",
		},
		{
			name:    "bad port",
			content: "database:\n  driver: memory\nauth:\n  jwt_secret: " + testSecret + "\n",
			env:     map[string]string{"PORT": "http"},
			wantErr: "PORT",
		},
		{
			name:    "bad yaml",
			content: "server: [",
			wantErr: "parsing config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			_, err := Load(writeConfig(t, test.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestRead_SkipsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/cinemahub")

	cfg, err := Read("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.NoError(t, cfg.ValidateDatabase())
	assert.Error(t, cfg.Validate())
}
