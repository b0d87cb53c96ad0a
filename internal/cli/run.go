package cli

import (
	"context"
	"fmt"

	"github.com/fmueller/batchscribe/internal/batch"
	"github.com/fmueller/batchscribe/internal/config"
	"github.com/fmueller/batchscribe/internal/download"
	"github.com/fmueller/batchscribe/internal/whisper"
	"go.uber.org/zap"
)

func (a *appState) runBatch(ctx context.Context) error {
	task, err := whisper.ParseTask(a.cfg.Task)
	if err != nil {
		return err
	}
	precision, err := whisper.ParsePrecision(a.cfg.Precision)
	if err != nil {
		return err
	}

	loadFn := a.loadEngineFn
	if loadFn == nil {
		loadFn = a.loadEngine
	}

	driver := batch.New(loadFn, batch.Options{
		InputDir:   a.cfg.InputDir,
		OutputDir:  a.cfg.OutputDir,
		Extensions: a.cfg.Extensions,
		ModelLabel: a.modelLabel(),
		Request: whisper.TranscriptionRequest{
			Language:  a.cfg.Language,
			Task:      task,
			Precision: precision,
		},
		Out:    a.outWriter(),
		Logger: a.log(),
		StartProgress: func(description string) func() {
			return startSpinner(a.progressEnabled(), description)
		},
	})

	stats, runErr := driver.Run(ctx)
	if stats.Total > 0 {
		fmt.Fprintln(a.outWriter())
		fmt.Fprintln(a.outWriter(), renderSummary(stats))
	}
	return runErr
}

func (a *appState) modelLabel() string {
	if a.cfg.Engine == config.EngineOpenAI {
		if a.cfg.OpenAI.Model != "" {
			return a.cfg.OpenAI.Model
		}
		return whisper.DefaultOpenAIModel
	}
	if model, ok := whisper.LookupModel(a.cfg.Model); ok {
		return model.Name
	}
	if a.cfg.Model == "" {
		return whisper.DefaultModel
	}
	return a.cfg.Model
}

// loadEngine readies the configured engine. For whisper.cpp this resolves,
// and if needed downloads, the model file before binding the engine to it.
func (a *appState) loadEngine(ctx context.Context) (whisper.Engine, error) {
	switch a.cfg.Engine {
	case config.EngineOpenAI:
		return whisper.NewOpenAIEngine(whisper.OpenAIOptions{
			APIKey:  a.cfg.OpenAI.APIKey,
			BaseURL: a.cfg.OpenAI.BaseURL,
			Model:   a.cfg.OpenAI.Model,
			Logger:  a.log(),
		})
	case config.EngineWhisperCpp:
		model, err := a.ensureModelAvailable(ctx)
		if err != nil {
			return nil, err
		}
		engine, err := whisper.NewBundledEngine(model.Path, a.log())
		if err != nil {
			return nil, err
		}
		a.log().Info("model ready", zap.String("model", model.Name), zap.String("path", model.Path), zap.String("engine", engine.Executable))
		return engine, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownEngine, a.cfg.Engine)
	}
}

func (a *appState) ensureModelAvailable(ctx context.Context) (whisper.ResolvedModel, error) {
	modelDir, err := a.modelStorageDir()
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	resolved, err := whisper.ResolveModel(a.cfg.Model, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}

	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !a.cfg.AutoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `batchscribe setup --model %s` or use --auto-download=true", resolved.Name, resolved.Path, resolved.Name)
	}

	a.log().Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.DownloadFile(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     !a.progressEnabled(),
		Logger:         a.log(),
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}
