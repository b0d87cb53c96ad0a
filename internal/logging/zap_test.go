package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigConsoleDefaults(t *testing.T) {
	t.Parallel()

	off := false
	cfg := Config(Options{Color: &off})
	require.Equal(t, "console", cfg.Encoding)
	require.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	require.True(t, cfg.DisableStacktrace)
	require.Empty(t, cfg.EncoderConfig.TimeKey)
	require.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestConfigVerboseJSON(t *testing.T) {
	t.Parallel()

	cfg := Config(Options{Verbose: true, JSON: true})
	require.Equal(t, "json", cfg.Encoding)
	require.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
	require.False(t, cfg.DisableStacktrace)
}

func TestNewBuildsLogger(t *testing.T) {
	t.Parallel()

	on := true
	logger, err := New(Options{Color: &on})
	require.NoError(t, err)
	require.NotNil(t, logger)
}
