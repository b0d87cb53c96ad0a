package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fmueller/batchscribe/internal/whisper"
)

// Normalize trims and canonicalizes values in place.
func (c *Config) Normalize() error {
	var err error
	if c.InputDir, err = ExpandPath(c.InputDir); err != nil {
		return fmt.Errorf("input_dir: %w", err)
	}
	if c.OutputDir, err = ExpandPath(c.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	if c.ModelDir, err = ExpandPath(c.ModelDir); err != nil {
		return fmt.Errorf("model_dir: %w", err)
	}

	c.Extensions = NormalizeExtensions(c.Extensions)
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	if c.Engine == "" {
		c.Engine = EngineWhisperCpp
	}
	c.Model = strings.TrimSpace(c.Model)
	c.Language = whisper.SanitizeLanguage(c.Language)
	c.Task = strings.ToLower(strings.TrimSpace(c.Task))
	c.Precision = strings.ToLower(strings.TrimSpace(c.Precision))

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	return nil
}

// NormalizeExtensions lowercases, adds a leading dot, and drops blanks and
// duplicates while keeping order.
func NormalizeExtensions(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
