package cli

import (
	"testing"

	"github.com/fmueller/batchscribe/internal/config"
	"github.com/stretchr/testify/require"
)

func TestUnknownSubcommandFails(t *testing.T) {
	t.Parallel()

	_, err := executeApp(t, newTestApp(&stubEngine{}), "transcribe")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}

func TestUnknownFlagFails(t *testing.T) {
	t.Parallel()

	_, err := executeApp(t, newTestApp(&stubEngine{}), "--oops")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag")
}

func TestInvalidEngineFails(t *testing.T) {
	t.Parallel()

	_, err := executeApp(t, newTestApp(&stubEngine{}), "--engine", "sphinx")
	require.ErrorIs(t, err, config.ErrUnknownEngine)
}

func TestInvalidTaskFails(t *testing.T) {
	t.Parallel()

	_, err := executeApp(t, newTestApp(&stubEngine{}), "--task", "summarize")
	require.Error(t, err)
	require.Contains(t, err.Error(), "summarize")
}

func TestMissingExplicitConfigFails(t *testing.T) {
	t.Parallel()

	_, err := executeApp(t, newTestApp(&stubEngine{}), "--config", t.TempDir()+"/nope.toml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "config file not found")
}
