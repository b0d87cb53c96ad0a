package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fmueller/batchscribe/internal/config"
	"github.com/fmueller/batchscribe/internal/whisper"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	mu       sync.Mutex
	requests []whisper.TranscriptionRequest
	fail     map[string]bool
}

func (s *stubEngine) Transcribe(_ context.Context, req whisper.TranscriptionRequest) (whisper.Result, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	stem := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	if s.fail[stem] {
		return whisper.Result{}, errors.New("decoder exploded")
	}
	return whisper.Result{Text: "hello from " + stem}, nil
}

// defaultsOnly ignores any per-user config file on the test machine.
func defaultsOnly(path string) (config.Config, string, bool, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if err := cfg.Normalize(); err != nil {
		return config.Config{}, "", false, err
	}
	return cfg, "", false, nil
}

func newTestApp(engine whisper.Engine) *appState {
	app := newAppState()
	app.loadConfigFn = defaultsOnly
	app.loadEngineFn = func(context.Context) (whisper.Engine, error) {
		return engine, nil
	}
	return app
}

func executeApp(t *testing.T, app *appState, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(app)
	return execute(cmd, args...)
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeAudioFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("RIFF"), 0o644))
	}
}
