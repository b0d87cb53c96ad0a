package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fmueller/batchscribe/internal/audio"
	"github.com/fmueller/batchscribe/internal/whisper"
	"go.uber.org/zap"
)

const (
	defaultPreviewRunes = 100
	separator           = "--------------------------------------------------"
)

// LoadFunc loads the transcription model. Run calls it exactly once.
type LoadFunc func(ctx context.Context) (whisper.Engine, error)

type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	// ModelLabel names the model in console output.
	ModelLabel string
	// Request is the fixed configuration sent for every file; AudioPath is
	// filled in per file.
	Request      whisper.TranscriptionRequest
	PreviewRunes int
	Out          io.Writer
	Logger       *zap.Logger
	// StartProgress shows an indicator while a file is transcribed and
	// returns the function that stops it.
	StartProgress func(description string) func()
}

// DefaultRequest is English transcription at half precision, quiet.
func DefaultRequest() whisper.TranscriptionRequest {
	return whisper.TranscriptionRequest{
		Language:  "en",
		Task:      whisper.TaskTranscribe,
		Precision: whisper.PrecisionHalf,
	}
}

type Driver struct {
	load LoadFunc
	opts Options
	now  func() time.Time
}

func New(load LoadFunc, opts Options) *Driver {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".wav"}
	}
	if opts.Request.Task == "" {
		opts.Request.Task = whisper.TaskTranscribe
	}
	if opts.Request.Precision == "" {
		opts.Request.Precision = whisper.PrecisionHalf
	}
	if opts.Request.Language == "" {
		opts.Request.Language = "en"
	}
	if opts.PreviewRunes == 0 {
		opts.PreviewRunes = defaultPreviewRunes
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.StartProgress == nil {
		opts.StartProgress = func(string) func() { return func() {} }
	}
	if opts.ModelLabel == "" {
		opts.ModelLabel = whisper.DefaultModel
	}

	return &Driver{load: load, opts: opts, now: time.Now}
}

// Run loads the model, prepares the output directory, and processes every
// discovered file. Only model loading, output directory creation, and input
// listing failures are returned; per-file failures are counted in Stats.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	out := d.opts.Out
	log := d.opts.Logger

	fmt.Fprintf(out, "Loading Whisper %s model...\n", d.opts.ModelLabel)
	engine, err := d.load(ctx)
	if err != nil {
		return stats, fmt.Errorf("load model %s: %w", d.opts.ModelLabel, err)
	}
	if closer, ok := engine.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("failed to release model", zap.Error(err))
			}
		}()
	}

	if err := EnsureOutputDir(d.opts.OutputDir); err != nil {
		return stats, err
	}

	files, err := Discover(d.opts.InputDir, d.opts.Extensions)
	if err != nil {
		return stats, err
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No audio files found in %s\n", d.opts.InputDir)
		log.Info("no audio files found", zap.String("input_dir", d.opts.InputDir), zap.Strings("extensions", d.opts.Extensions))
		return stats, nil
	}

	stats.Total = len(files)
	fmt.Fprintf(out, "Found %d audio files to transcribe\n", stats.Total)
	fmt.Fprintln(out, separator)
	log.Info("starting batch",
		zap.Int("files", stats.Total),
		zap.String("input_dir", d.opts.InputDir),
		zap.String("output_dir", d.opts.OutputDir),
		zap.String("language", d.opts.Request.Language),
		zap.String("task", string(d.opts.Request.Task)),
		zap.String("precision", string(d.opts.Request.Precision)),
	)

	for i, path := range files {
		if ctx.Err() != nil {
			return stats, d.interrupted(ctx, &stats)
		}

		stats.Current = i + 1
		item := d.processFile(ctx, engine, path, &stats)
		stats.Items = append(stats.Items, item)
	}
	// a cancel during the last file still ends the run as interrupted
	if ctx.Err() != nil {
		return stats, d.interrupted(ctx, &stats)
	}

	fmt.Fprintln(out, "Batch transcription complete!")
	fmt.Fprintf(out, "All transcripts saved in '%s/' folder\n", d.opts.OutputDir)
	log.Info("batch finished", zap.Int("succeeded", stats.Succeeded), zap.Int("failed", stats.Failed))
	return stats, nil
}

func (d *Driver) interrupted(ctx context.Context, stats *Stats) error {
	stats.Interrupted = true
	d.opts.Logger.Warn("interrupted", zap.Int("processed", len(stats.Items)), zap.Int("total", stats.Total))
	return fmt.Errorf("run interrupted after %d of %d files: %w", len(stats.Items), stats.Total, ctx.Err())
}

// processFile transcribes and persists one input. Errors from either step
// are reported and recorded, never returned.
func (d *Driver) processFile(ctx context.Context, engine whisper.Engine, path string, stats *Stats) ItemResult {
	out := d.opts.Out
	item := ItemResult{
		Index:  stats.Current,
		Input:  path,
		Stem:   Stem(path),
		Output: OutputPath(d.opts.OutputDir, path),
	}
	log := d.opts.Logger.With(zap.String("file", item.Stem), zap.Int("index", item.Index))

	fmt.Fprintf(out, "[%d/%d] Processing: %s\n", stats.Current, stats.Total, item.Stem)

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if info, err := audio.Inspect(path); err == nil {
			item.AudioDuration = info.Duration
			log.Debug("audio header", zap.Duration("duration", info.Duration), zap.Uint32("sample_rate", info.SampleRate), zap.Uint16("channels", info.Channels))
		} else {
			log.Debug("audio header unreadable", zap.Error(err))
		}
	}

	started := d.now()
	text, err := d.TranscribeOne(ctx, engine, path)
	if err == nil {
		err = Persist(text, item.Output)
	}
	item.Elapsed = d.now().Sub(started)

	if err != nil {
		item.Err = err
		stats.Failed++
		fmt.Fprintf(out, "   ✗ Error processing %s: %v\n\n", item.Stem, err)
		log.Warn("transcription failed", zap.Duration("elapsed", item.Elapsed), zap.Error(err))
		return item
	}

	stats.Succeeded++
	fmt.Fprintf(out, "   ✓ Saved: %s\n", item.Output)
	fmt.Fprintf(out, "   Preview: %s\n\n", Preview(text, d.opts.PreviewRunes))
	log.Info("transcript saved", zap.String("output", item.Output), zap.Duration("elapsed", item.Elapsed), zap.Int("chars", len([]rune(text))))
	return item
}

// TranscribeOne runs the engine on path with the driver's fixed request and
// returns the trimmed text.
func (d *Driver) TranscribeOne(ctx context.Context, engine whisper.Engine, path string) (string, error) {
	req := d.opts.Request
	req.AudioPath = path

	stop := d.opts.StartProgress("Transcribing " + Stem(path))
	result, err := engine.Transcribe(ctx, req)
	stop()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text), nil
}
