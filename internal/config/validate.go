package config

import (
	"errors"
	"fmt"

	"github.com/fmueller/batchscribe/internal/whisper"
)

func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input_dir must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must list at least one file extension")
	}

	switch c.Engine {
	case EngineWhisperCpp, EngineOpenAI:
	default:
		return fmt.Errorf("%w %q (expected %s or %s)", ErrUnknownEngine, c.Engine, EngineWhisperCpp, EngineOpenAI)
	}

	if _, err := whisper.ParseTask(c.Task); err != nil {
		return err
	}
	if _, err := whisper.ParsePrecision(c.Precision); err != nil {
		return err
	}
	return nil
}
