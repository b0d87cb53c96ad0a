package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fmueller/batchscribe/internal/config"
	"github.com/fmueller/batchscribe/internal/logging"
	"github.com/fmueller/batchscribe/internal/platform"
	"github.com/fmueller/batchscribe/internal/version"
	"github.com/fmueller/batchscribe/internal/whisper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type appState struct {
	verbose    bool
	jsonLogs   bool
	noProgress bool
	configPath string

	// flags holds values bound to command-line flags; cfg is the effective
	// configuration once the config file and changed flags are merged.
	flags config.Config
	cfg   config.Config

	logger *zap.Logger
	out    io.Writer

	loadConfigFn func(path string) (config.Config, string, bool, error)
	loadEngineFn func(ctx context.Context) (whisper.Engine, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState())
}

func newAppState() *appState {
	app := &appState{
		flags:        config.Default(),
		cfg:          config.Default(),
		loadConfigFn: config.Load,
	}
	app.loadEngineFn = app.loadEngine
	return app
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batchscribe",
		Short: "Transcribe every audio file in a folder into text files",
		Long: "Transcribe every audio file in a folder with a Whisper model, writing one <name>.txt per input.\n\n" +
			"Without flags, audio is read from \"" + config.DefaultInputDir + "\" and transcripts are written to \"" +
			config.DefaultOutputDir + "\".",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.out == nil {
				app.out = cmd.OutOrStdout()
			}
			return app.runBatch(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd.PersistentFlags(), app)
	bindConfigFlags(cmd.PersistentFlags(), app)
	bindModelFlags(cmd.PersistentFlags(), app)
	bindBatchFlags(cmd.Flags(), app)

	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newModelsCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(flags *pflag.FlagSet, app *appState) {
	flags.BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	flags.BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
	flags.BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindConfigFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.configPath, "config", app.configPath, "Path to a TOML config file (default: per-user config.toml when present)")
}

func bindModelFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.flags.Engine, "engine", app.flags.Engine, "Transcription engine: whisper-cpp|openai")
	flags.StringVar(&app.flags.Model, "model", app.flags.Model, "Model name (tiny|base|small|medium|large-v3) or model file path")
	flags.StringVar(&app.flags.ModelDir, "model-dir", app.flags.ModelDir, "Directory where models are stored")
	flags.BoolVar(&app.flags.AutoDownload, "auto-download", app.flags.AutoDownload, "Automatically download missing models")
	flags.StringVar(&app.flags.OpenAI.BaseURL, "openai-base-url", app.flags.OpenAI.BaseURL, "Base URL of an OpenAI-compatible API")
	flags.StringVar(&app.flags.OpenAI.Model, "openai-model", app.flags.OpenAI.Model, "Model name for the openai engine (default whisper-1)")
}

func bindBatchFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.flags.InputDir, "input-dir", app.flags.InputDir, "Folder containing audio files")
	flags.StringVar(&app.flags.OutputDir, "output-dir", app.flags.OutputDir, "Folder receiving <name>.txt transcripts")
	flags.StringSliceVar(&app.flags.Extensions, "ext", app.flags.Extensions, "Audio file extensions to pick up (case-insensitive)")
	flags.StringVar(&app.flags.Language, "language", app.flags.Language, "Language code (en|de|...|auto)")
	flags.StringVar(&app.flags.Task, "task", app.flags.Task, "transcribe or translate (to English)")
	flags.StringVar(&app.flags.Precision, "precision", app.flags.Precision, "Compute precision: half|full")
}

// prepare builds the logger and the effective configuration: defaults, then
// the config file, then any flag the user set explicitly.
func (a *appState) prepare(cmd *cobra.Command) error {
	logger, err := logging.New(logging.Options{Verbose: a.verbose, JSON: a.jsonLogs})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	a.logger = logger

	loadConfig := a.loadConfigFn
	if loadConfig == nil {
		loadConfig = config.Load
	}

	cfg, path, exists, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if exists {
		a.log().Debug("loaded config file", zap.String("path", path))
	}

	applyFlagOverrides(cmd.Flags(), a.flags, &cfg)
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func applyFlagOverrides(flags *pflag.FlagSet, values config.Config, cfg *config.Config) {
	overrides := map[string]func(){
		"input-dir":       func() { cfg.InputDir = values.InputDir },
		"output-dir":      func() { cfg.OutputDir = values.OutputDir },
		"ext":             func() { cfg.Extensions = values.Extensions },
		"engine":          func() { cfg.Engine = values.Engine },
		"model":           func() { cfg.Model = values.Model },
		"model-dir":       func() { cfg.ModelDir = values.ModelDir },
		"auto-download":   func() { cfg.AutoDownload = values.AutoDownload },
		"language":        func() { cfg.Language = values.Language },
		"task":            func() { cfg.Task = values.Task },
		"precision":       func() { cfg.Precision = values.Precision },
		"openai-base-url": func() { cfg.OpenAI.BaseURL = values.OpenAI.BaseURL },
		"openai-model":    func() { cfg.OpenAI.Model = values.OpenAI.Model },
	}

	for name, apply := range overrides {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			apply()
		}
	}
}

func (a *appState) modelStorageDir() (string, error) {
	dir, err := platform.ResolveModelDir(a.cfg.ModelDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory %s: %w", dir, err)
	}
	return dir, nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
