package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupSkipsHostedEngine(t *testing.T) {
	t.Parallel()

	out, err := executeApp(t, newTestApp(&stubEngine{}), "setup", "--engine", "openai")
	require.NoError(t, err)
	require.Contains(t, out, "nothing to download")
}

func TestSetupRejectsCustomModelPath(t *testing.T) {
	t.Parallel()

	modelPath := filepath.Join(t.TempDir(), "custom.bin")
	require.NoError(t, os.WriteFile(modelPath, []byte("weights"), 0o644))

	_, err := executeApp(t, newTestApp(&stubEngine{}), "setup", "--model", modelPath, "--model-dir", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "setup expects a named model")
}

func TestModelsListsCatalog(t *testing.T) {
	t.Parallel()

	modelDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "ggml-tiny.bin"), []byte("weights"), 0o644))

	out, err := executeApp(t, newTestApp(&stubEngine{}), "models", "--model-dir", modelDir, "--model", "tiny")
	require.NoError(t, err)
	require.Contains(t, out, "large-v3")
	require.Contains(t, out, "Installed")
	require.Contains(t, out, "ggml-medium.bin")
	require.Contains(t, out, "yes")
	require.Contains(t, out, "*")
}
