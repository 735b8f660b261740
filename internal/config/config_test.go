package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cast-receiver/internal/credentials"
	"cast-receiver/internal/device"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.EvaluationInterval)
	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.True(t, cfg.APIServer.Enabled)
	assert.Equal(t, 8008, cfg.APIServer.Port)
	assert.Empty(t, cfg.Servers)
	require.NoError(t, cfg.Validate())

	_, ok := cfg.ClassOverride()
	assert.False(t, ok)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"invalid device class", func(c *Config) { c.DeviceClass = "gen9" }, "device_class"},
		{"invalid capability", func(c *Config) { c.Capabilities = []string{"vp9"} }, "capabilities"},
		{"non-positive interval", func(c *Config) { c.EvaluationInterval = 0 }, "evaluation_interval"},
		{"server without url", func(c *Config) { c.Servers["media"] = credentials.ServerConfig{ClientID: "receiver"} }, "server_url"},
		{"bad port", func(c *Config) { c.APIServer.Port = 70000 }, "api_server.port"},
		{"bad timeout", func(c *Config) { c.APIServer.ReadTimeout = 0 }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("disabled api skips port checks", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.APIServer.Enabled = false
		cfg.APIServer.Port = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log_level: debug
device_class: smart_display
capabilities:
  - video/mp4=avc1.640029
  - video/webm=vp9
evaluation_interval: 5
servers:
  living-room:
    server_url: https://media.example.com
    client_id: receiver
    client_secret: s3cret
    scopes: [playback]
api_server:
  port: 9000
  jwt_secret: signing-key
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Interval())
	assert.Equal(t, 9000, cfg.APIServer.Port)
	assert.Equal(t, "0.0.0.0", cfg.APIServer.Host)
	assert.Equal(t, "signing-key", cfg.APIServer.JWTSecret)

	class, ok := cfg.ClassOverride()
	assert.True(t, ok)
	assert.Equal(t, device.ClassSmartDisplay, class)

	assert.Equal(t, []device.Capability{
		{MimeType: "video/mp4", Codec: "avc1.640029"},
		{MimeType: "video/webm", Codec: "vp9"},
	}, cfg.DeviceCapabilities())

	require.Contains(t, cfg.Servers, "living-room")
	server := cfg.Servers["living-room"]
	assert.Equal(t, "https://media.example.com", server.ServerURL)
	assert.Equal(t, "receiver", server.ClientID)
	assert.True(t, server.HasSecret())
	assert.Equal(t, []string{"playback"}, server.Scopes)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
