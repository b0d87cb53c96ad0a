package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "batchscribe"

// Env carries the environment values directory resolution depends on, so
// callers and tests can resolve paths for any OS.
type Env struct {
	GOOS          string
	Home          string
	XDGDataHome   string
	XDGConfigHome string
	AppData       string
	LocalAppData  string
}

func CurrentEnv() (Env, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("resolve user home: %w", err)
	}

	return Env{
		GOOS:          runtime.GOOS,
		Home:          homeDir,
		XDGDataHome:   os.Getenv("XDG_DATA_HOME"),
		XDGConfigHome: os.Getenv("XDG_CONFIG_HOME"),
		AppData:       os.Getenv("APPDATA"),
		LocalAppData:  os.Getenv("LOCALAPPDATA"),
	}, nil
}

func NormalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}

func (e Env) ModelDir() (string, error) {
	dataDir, err := e.dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "models"), nil
}

func (e Env) ConfigFile() (string, error) {
	configDir, err := e.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// ResolveModelDir returns override when set, else the per-user model directory.
func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	env, err := CurrentEnv()
	if err != nil {
		return "", err
	}
	return env.ModelDir()
}

func DefaultConfigFile() (string, error) {
	env, err := CurrentEnv()
	if err != nil {
		return "", err
	}
	return env.ConfigFile()
}

func (e Env) dataDir() (string, error) {
	if e.Home == "" {
		return "", errors.New("home directory is empty")
	}

	switch e.GOOS {
	case "linux":
		if e.XDGDataHome != "" {
			return filepath.Join(e.XDGDataHome, appName), nil
		}
		return filepath.Join(e.Home, ".local", "share", appName), nil
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", appName), nil
	case "windows":
		if e.LocalAppData != "" {
			return filepath.Join(e.LocalAppData, appName), nil
		}
		return filepath.Join(e.Home, "AppData", "Local", appName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", e.GOOS)
	}
}

func (e Env) configDir() (string, error) {
	if e.Home == "" {
		return "", errors.New("home directory is empty")
	}

	switch e.GOOS {
	case "linux":
		if e.XDGConfigHome != "" {
			return filepath.Join(e.XDGConfigHome, appName), nil
		}
		return filepath.Join(e.Home, ".config", appName), nil
	case "darwin":
		return filepath.Join(e.Home, "Library", "Application Support", appName), nil
	case "windows":
		if e.AppData != "" {
			return filepath.Join(e.AppData, appName), nil
		}
		return filepath.Join(e.Home, "AppData", "Roaming", appName), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", e.GOOS)
	}
}
