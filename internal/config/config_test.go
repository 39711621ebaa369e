package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins:
    - "https://example.com"

mailchimp:
  api_key: "test-key-us7"
  list_id: "abc123"
  timeout_seconds: 45
  cache_ttl_minutes: 30

database:
  url: "postgres://localhost/authorsite_test"

images:
  bucket: "author-site-images"
  endpoint: "https://account.r2.cloudflarestorage.com"
  max_upload_mb: 5

admin:
  token: "secret"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "test-key-us7", cfg.Mailchimp.APIKey)
	assert.Equal(t, "abc123", cfg.Mailchimp.ListID)
	assert.Equal(t, 45*time.Second, cfg.Mailchimp.Timeout())
	assert.Equal(t, 30*time.Minute, cfg.Mailchimp.CacheTTL())

	assert.Equal(t, "postgres://localhost/authorsite_test", cfg.Database.URL)
	assert.Equal(t, "author-site-images", cfg.Images.Bucket)
	assert.Equal(t, 5, cfg.Images.MaxUploadMB)
	assert.Equal(t, "secret", cfg.Admin.Token)
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("server: {}\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Mailchimp.Timeout())
	assert.Equal(t, time.Hour, cfg.Mailchimp.CacheTTL())
	assert.Equal(t, "auto", cfg.Images.Region)
	assert.Equal(t, 10, cfg.Images.MaxUploadMB)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("mailchimp:\n  api_key: \"from-file\"\n"), 0644)
	require.NoError(t, err)

	t.Setenv("MAILCHIMP_API_KEY", "from-env-us3")
	t.Setenv("MAILCHIMP_LIST_ID", "list-env")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ADMIN_TOKEN", "env-token")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env-us3", cfg.Mailchimp.APIKey)
	assert.Equal(t, "list-env", cfg.Mailchimp.ListID)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "env-token", cfg.Admin.Token)
}
