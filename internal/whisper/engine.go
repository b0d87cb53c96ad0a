package whisper

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
)

// Precision selects the numeric precision an engine computes with. Half
// trades a little accuracy for throughput.
//
// whisper-cli maps half to flash attention (-fa). Builds from 1.8 on enable
// flash attention by default, so full only differs from half on older
// builds; -nfa is not passed because older builds reject it.
type Precision string

const (
	PrecisionHalf Precision = "half"
	PrecisionFull Precision = "full"
)

type TranscriptionRequest struct {
	AudioPath string
	Language  string
	Task      Task
	Precision Precision
	Verbose   bool
}

type Result struct {
	Text     string
	Language string
	Duration time.Duration
}

// Engine is a loaded speech model. An Engine stays bound to one model for its
// lifetime.
type Engine interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (Result, error)
}

func ParseTask(value string) (Task, error) {
	switch Task(strings.ToLower(strings.TrimSpace(value))) {
	case "", TaskTranscribe:
		return TaskTranscribe, nil
	case TaskTranslate:
		return TaskTranslate, nil
	default:
		return "", fmt.Errorf("unknown task %q (expected transcribe or translate)", value)
	}
}

func ParsePrecision(value string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "half", "fp16":
		return PrecisionHalf, nil
	case "full", "fp32":
		return PrecisionFull, nil
	default:
		return "", fmt.Errorf("unknown precision %q (expected half or full)", value)
	}
}

func SanitizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return "auto"
	}
	return trimmed
}
