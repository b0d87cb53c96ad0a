package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fmueller/batchscribe/internal/platform"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const enginePathEnv = "BATCHSCRIBE_WHISPER_PATH"

// BundledEngine runs the whisper.cpp command line tool against a single
// model file.
type BundledEngine struct {
	Executable string
	ModelPath  string
	Logger     *zap.Logger
}

func NewBundledEngine(modelPath string, logger *zap.Logger) (*BundledEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is required")
	}

	if override := strings.TrimSpace(os.Getenv(enginePathEnv)); override != "" {
		if err := ensureExecutable(override); err != nil {
			return nil, fmt.Errorf("%s is not executable: %w", enginePathEnv, err)
		}
		return &BundledEngine{Executable: override, ModelPath: modelPath, Logger: logger}, nil
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve batchscribe executable path: %w", err)
	}

	whisperExe, err := ResolveBundledEnginePath(self)
	if err != nil {
		return nil, err
	}

	return &BundledEngine{Executable: whisperExe, ModelPath: modelPath, Logger: logger}, nil
}

func ResolveBundledEnginePath(selfExecutable string) (string, error) {
	for _, candidate := range EnginePathCandidates(selfExecutable) {
		if err := ensureExecutable(candidate); err == nil {
			return candidate, nil
		}
	}

	if onPath, err := exec.LookPath(engineBinaryName()); err == nil {
		return onPath, nil
	}

	return "", fmt.Errorf("whisper engine not found near %s or on PATH; install whisper-cli or set %s (expected at ../libexec/whisper/%s)", selfExecutable, enginePathEnv, engineBinaryName())
}

func EnginePathCandidates(selfExecutable string) []string {
	binDir := filepath.Dir(selfExecutable)
	engineName := engineBinaryName()
	hostTarget := fmt.Sprintf("%s_%s", runtime.GOOS, platform.NormalizeArch(runtime.GOARCH))

	return []string{
		filepath.Join(binDir, "..", "libexec", "whisper", engineName),
		filepath.Join(binDir, "libexec", "whisper", engineName),
		filepath.Join(binDir, "packaging", "whisper", hostTarget, engineName),
		filepath.Join(binDir, engineName),
	}
}

func (b *BundledEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, errors.New("audio path is required")
	}

	if err := ensureExecutable(b.Executable); err != nil {
		return Result{}, fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	outBase := filepath.Join(os.TempDir(), "batchscribe-"+uuid.NewString())
	txtOut := outBase + ".txt"
	defer os.Remove(txtOut)

	args := commandArgs(b.ModelPath, req, outBase)

	cmd := exec.CommandContext(ctx, b.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if req.Verbose {
		cmd.Stdout = os.Stderr
	}

	b.logger().Debug("running whisper engine", zap.String("engine", b.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if isMissingSharedLibraryError(errText) {
			return Result{}, fmt.Errorf("whisper engine at %s is missing required shared libraries (%s); rebuild whisper-cli with BUILD_SHARED_LIBS=OFF", b.Executable, errText)
		}
		if isIllegalInstructionError(errText) || isIllegalInstructionError(err.Error()) {
			return Result{}, fmt.Errorf("whisper engine crashed with an illegal CPU instruction; "+
				"set %s to a whisper-cli binary built for your CPU", enginePathEnv)
		}
		return Result{}, fmt.Errorf("whisper transcribe failed: %w (%s)", err, lastLine(errText))
	}

	content, err := os.ReadFile(txtOut)
	if err != nil {
		return Result{}, fmt.Errorf("read whisper output: %w", err)
	}

	return Result{Text: strings.TrimSpace(string(content)), Language: req.Language}, nil
}

func (b *BundledEngine) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func commandArgs(modelPath string, req TranscriptionRequest, outBase string) []string {
	args := []string{"-m", modelPath, "-f", req.AudioPath, "-nt", "-otxt", "-of", outBase}

	lang := SanitizeLanguage(req.Language)
	if lang != "auto" {
		args = append(args, "-l", lang)
	}
	if req.Task == TaskTranslate {
		args = append(args, "-tr")
	}
	if req.Precision != PrecisionFull {
		args = append(args, "-fa")
	}
	if !req.Verbose {
		args = append(args, "-np")
	}
	return args
}

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}

func engineBinaryName() string {
	if runtime.GOOS == "windows" {
		return "whisper-cli.exe"
	}
	return "whisper-cli"
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(strings.TrimSpace(stderr))
	if value == "" {
		return false
	}

	patterns := []string{
		"error while loading shared libraries",
		"cannot open shared object file",
		"dyld: library not loaded",
		"image not found",
	}

	for _, pattern := range patterns {
		if strings.Contains(value, pattern) {
			return true
		}
	}

	return false
}

func isIllegalInstructionError(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "illegal instruction")
}
