package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"cast-receiver/internal/device"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) string {
	t.Cleanup(func() {
		capabilityFlags = nil
		classifyJSON = false
		logLevel = ""
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	out := runRoot(t, "classify",
		"--capability", "video/webm=vp9",
		"--capability", "video/mp4="+device.HEVCCodec,
	)

	assert.Contains(t, out, "Device class: ultra")
	assert.Contains(t, out, device.HEVCCodec)
}

func TestClassifyCommand_JSON(t *testing.T) {
	out := runRoot(t, "classify", "--json", "--capability", "video/mp4="+device.AVCHigh41Codec)

	var result classifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, device.ClassChromecast, result.Class)
	assert.Equal(t, 1080, result.Profile.MaxHeight)
}

func TestClassifyCommand_AudioOnly(t *testing.T) {
	out := runRoot(t, "classify", "--capability", "audio/mp4=mp4a.40.2")

	assert.Contains(t, out, "Device class: audio")
	assert.Contains(t, out, "audio only")
}
