package logging

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRunID_Stable(t *testing.T) {
	first := GetRunID()
	second := GetRunID()
	assert.Equal(t, first, second, "run ID should be stable within a process")
	assert.NotEmpty(t, first)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	logger, err := NewLogger("test")
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("hello %s", "world")

	require.NotEmpty(t, logger.LogPath())
	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "hello world")
	assert.Contains(t, content, "[test]")
	assert.Contains(t, content, "[INFO]")
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	logger, err := NewLogger("debugtest")
	require.NoError(t, err)
	defer logger.Close()

	logger.Debugf("suppressed message %d", 1)
	logger.SetDebug(true)
	logger.Debugf("visible message %d", 2)

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "suppressed message 1")
	assert.Contains(t, content, "visible message 2")
}

func TestLogger_Levels(t *testing.T) {
	logger, err := NewLogger("levels")
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof("info line")
	logger.Warnf("warn line")
	logger.Errorf("error line")

	data, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)

	content := string(data)
	for _, want := range []string{"[INFO] info line", "[WARN] warn line", "[ERROR] error line"} {
		assert.True(t, strings.Contains(content, want), "expected %q in log output", want)
	}
}

func TestLogger_CloseIdempotent(t *testing.T) {
	logger, err := NewLogger("close")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestGetLogDirectory(t *testing.T) {
	dir, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Contains(t, dir, ".webpilot")
}
