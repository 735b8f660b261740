package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := Initialize(tt.level)
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestInitialize_JSONFields(t *testing.T) {
	logger := Initialize("info")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	NewServiceLogger(logger, "detector").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, "detector", entry["service"])
	assert.Equal(t, "service", entry["component"])
	assert.Equal(t, Version, entry["version"])
}

func TestInitialize_DefaultServiceField(t *testing.T) {
	logger := Initialize("info")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	NewContextLogger(logger, logrus.Fields{"server_id": "media-1"}).Warn("careful")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "media-1", entry["server_id"])
}

func TestSetupFileLogging(t *testing.T) {
	logger := Initialize("info")

	require.NoError(t, SetupFileLogging(logger, ""))

	path := filepath.Join(t.TempDir(), "logs", "receiver.log")
	require.NoError(t, SetupFileLogging(logger, path))

	logger.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "File logging enabled")
}
