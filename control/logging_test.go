// File: control/logging_test.go
// Author: protomux <oss@protomux.dev>
// License: Apache-2.0

package control

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerConsole(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "info", Console: true, MaxSizeMB: 1})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("console logger up")
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wspipe.log")
	logger, err := NewLogger(LogConfig{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("hello from rotation sink")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello from rotation sink")
	require.Contains(t, string(data), `"level":"info"`)
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "verbose"})
	require.Error(t, err)
}
