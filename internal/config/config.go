package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmueller/batchscribe/internal/platform"
	"github.com/pelletier/go-toml/v2"
)

// Fixed locations used when nothing overrides them.
const (
	DefaultInputDir  = "audio/New Set - Manual Clone Prep"
	DefaultOutputDir = "transcripts/New Set - Manual Clone Prep"
)

const (
	EngineWhisperCpp = "whisper-cpp"
	EngineOpenAI     = "openai"
)

var ErrUnknownEngine = errors.New("unknown engine")

// Config holds every setting a batch run reads.
type Config struct {
	InputDir     string   `toml:"input_dir"`
	OutputDir    string   `toml:"output_dir"`
	Extensions   []string `toml:"extensions"`
	Engine       string   `toml:"engine"`
	Model        string   `toml:"model"`
	ModelDir     string   `toml:"model_dir"`
	AutoDownload bool     `toml:"auto_download"`
	Language     string   `toml:"language"`
	Task         string   `toml:"task"`
	Precision    string   `toml:"precision"`
	OpenAI       OpenAI   `toml:"openai"`
}

// OpenAI configures the hosted engine. BaseURL may point at any compatible API.
type OpenAI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

func Default() Config {
	return Config{
		InputDir:     DefaultInputDir,
		OutputDir:    DefaultOutputDir,
		Extensions:   []string{".wav"},
		Engine:       EngineWhisperCpp,
		Model:        "large-v3",
		AutoDownload: true,
		Language:     "en",
		Task:         "transcribe",
		Precision:    "half",
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty path
// looks for the per-user config file and silently falls back to defaults when
// it is absent; an explicit path must exist. The resolved path and whether a
// file was read are returned alongside the config.
func Load(path string) (Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return Config{}, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return Config{}, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return Config{}, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", false, err
	}

	return cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := platform.DefaultConfigFile()
	if err != nil {
		return "", false, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if pathValue != "~" && !strings.HasPrefix(pathValue, "~/") {
		return filepath.Clean(pathValue), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(pathValue, "~")), nil
}
