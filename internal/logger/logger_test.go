package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeWritesFiles(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	dir := t.TempDir()
	logFile := filepath.Join(dir, "raffle.log")
	errorFile := filepath.Join(dir, "raffle.error.log")

	require.NoError(t, Initialize(Configuration{
		LogFile:   logFile,
		ErrorFile: errorFile,
		Level:     "info",
	}))

	Debug("hidden")
	Info("create raffle: raffle created", zap.Uint32("raffle id", 0))
	Error("transfer: ledger rejected batch")
	Sync()

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "raffle created")
	assert.Contains(t, string(logged), `"raffle id":0`)
	assert.NotContains(t, string(logged), "hidden")

	errors, err := os.ReadFile(errorFile)
	require.NoError(t, err)
	assert.Contains(t, string(errors), "ledger rejected batch")
	assert.NotContains(t, string(errors), "raffle created")
}

func TestInitializeFailsOnUnwritableFile(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	err := Initialize(Configuration{LogFile: filepath.Join(t.TempDir(), "missing", "raffle.log")})
	assert.Error(t, err)
}

func TestScopeNamesComponent(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	scope := Scope("tracker")
	logFile := filepath.Join(t.TempDir(), "raffle.log")

	// declared before Initialize, still writes to the configured sinks
	require.NoError(t, Initialize(Configuration{LogFile: logFile, Level: "debug"}))
	scope.Debug("round started", zap.Int64("last processed lt", 42))
	scope.Warn("payout failed")
	Sync()

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"logger":"tracker"`)
	assert.Contains(t, string(logged), "round started")
	assert.Contains(t, string(logged), "payout failed")
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	assert.Error(t, Initialize(Configuration{Level: "loud"}))
}
