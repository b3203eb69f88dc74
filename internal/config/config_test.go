package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(nil, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mongodb://localhost:27017/mernapp", cfg.Mongo.URI)
	assert.Equal(t, "mernapp", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.Mongo.ServerSelectionTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.MailConfigured())
	assert.False(t, cfg.S3Configured())
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes())
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
}

func TestParseYAML(t *testing.T) {
	content := []byte(`
port: 8080
env: production
client_url: https://example.com/
allowed_origins: [" example.com ", "", "*.example.com"]
token_ttl: 12h
mongo:
  uri: mongodb://db:27017/site
  server_selection_timeout: 2s
smtp:
  host: smtp.example.com
  port: 465
  secure: true
  user: mailer@example.com
  pass: secret
media:
  bucket: assets
  endpoint: https://r2.example.com/
  max_upload_mb: 10
`)
	cfg, err := parse(content, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://example.com", cfg.ClientURL)
	assert.Equal(t, []string{"example.com", "*.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "site", cfg.Mongo.Database)
	assert.Equal(t, 2*time.Second, cfg.Mongo.ServerSelectionTimeout)
	assert.True(t, cfg.MailConfigured())
	assert.Equal(t, "mailer@example.com", cfg.SMTP.From)
	assert.True(t, cfg.S3Configured())
	assert.Equal(t, "https://r2.example.com", cfg.Media.Endpoint)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
}

func TestParseEnvOverridesFile(t *testing.T) {
	content := []byte("port: 8080\nclient_url: https://file.example.com\n")
	cfg, err := parse(content, envMap(map[string]string{
		"PORT":             "9090",
		"CLIENT_URL":       "https://env.example.com",
		"MONGODB_URI":      "mongodb://env:27017",
		"SMTP_HOST":        "smtp.env",
		"SMTP_USER":        "u",
		"SMTP_PASS":        "p",
		"SMTP_SKIP_VERIFY": "true",
		"ALLOWED_ORIGINS":  "a.com, b.com",
		"REDIS_URL":        "localhost:6379/0",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "https://env.example.com", cfg.ClientURL)
	assert.Equal(t, "mernapp", cfg.Mongo.Database)
	assert.True(t, cfg.MailConfigured())
	assert.True(t, cfg.SMTP.SkipVerify)
	assert.Equal(t, []string{"a.com", "b.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"port out of range", "port: 70000", nil},
		{"unknown field", "nope: 1", nil},
		{"bad env port", "", map[string]string{"PORT": "abc"}},
		{"bad env bool", "", map[string]string{"SMTP_SECURE": "maybe"}},
		{"negative upload limit", "media:\n  max_upload_mb: -1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.content), envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestResolveRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "uploads")
	assert.Equal(t, abs, ResolveRuntimePath(abs, "ignored"))
	assert.Equal(t, filepath.Join(WorkingDir(), "logs"), ResolveRuntimePath("", "logs"))
}
