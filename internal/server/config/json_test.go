package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc":                   "www.example:9000",
		"endpoint_addr_http":                   "www.example:8000",
		"database_dsn":                         "memory",
		"secret_key":                           "my_secret_key",
		"access_token_validity_duration":       "1m",
		"refresh_token_validity_duration":      "3m",
		"verification_token_validity_duration": "2h",
		"bcrypt_cost":                          11,
		"mail_sender":                          "s3",
		"mail_from":                            "auth@example.com",
		"verification_url":                     "https://app.example/verify",
		"s3_root_user":                         "user",
		"s3_root_password":                     "password",
		"s3_bucket":                            "bucket",
		"s3_region":                            "region",
		"s3_base_endpoint":                     "base_endpoint",
		"cors_allowed_origins":                 []string{"https://app.example"},
		"cookie_secure":                        true,
		"notification_workers":                 4,
		"notification_queue_size":              10,
		"log_level":                            "debug",
		"otel_endpoint":                        "http://collector:4318",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 2*time.Hour, cfg.VerificationTokenValidityDuration)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "s3", cfg.MailSender)
		assert.Equal(t, "auth@example.com", cfg.MailFrom)
		assert.Equal(t, "https://app.example/verify", cfg.VerificationURL)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowedOrigins)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, 4, cfg.NotificationWorkers)
		assert.Equal(t, 10, cfg.NotificationQueueSize)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "http://collector:4318", cfg.OTelEndpoint)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"secret_key": "rotated",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := defaults()
		parseJson(cfg)

		want := defaults()
		want.SecretKey = "rotated"
		assert.Equal(t, want, cfg)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "absent.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
