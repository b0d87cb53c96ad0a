package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Persist writes text as the full contents of outputPath, replacing any
// existing file. The text is trimmed, NFC-normalized, and stored as UTF-8.
// The write goes to a sibling .part file first and is renamed into place.
func Persist(text, outputPath string) error {
	content := NormalizeText(text)

	tempPath := outputPath + ".part"
	if err := os.WriteFile(tempPath, []byte(content), 0o644); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write transcript %s: %w", filepath.Base(outputPath), err)
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("move transcript into place: %w", err)
	}
	return nil
}

// NormalizeText is the exact form Persist writes.
func NormalizeText(text string) string {
	text = strings.ToValidUTF8(text, "�")
	return norm.NFC.String(strings.TrimSpace(text))
}

// Preview returns the first limit runes of text followed by "...", with runs
// of whitespace collapsed so the preview stays on one console line.
func Preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); limit > 0 && len(runes) > limit {
		text = string(runes[:limit])
	}
	return text + "..."
}
