package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists regular files directly inside dir whose extension matches
// one of extensions, ignoring case. Dotfiles are skipped. The result is sorted
// so runs are reproducible. A missing dir yields no files.
func Discover(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !matchesExtension(name, extensions) {
			continue
		}

		path := filepath.Join(dir, name)
		if !entry.Type().IsRegular() {
			// follow symlinks; skip anything that is not a file once resolved
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

func matchesExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath names the transcript for inputPath inside outputDir.
func OutputPath(outputDir, inputPath string) string {
	return filepath.Join(outputDir, Stem(inputPath)+".txt")
}

// EnsureOutputDir creates dir and any missing parents.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
