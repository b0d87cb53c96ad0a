package batch

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"zeta.wav", "Alpha.WAV", "mid.Wav", "readme.txt", ".hidden.wav", "noext"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "folder.wav"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "folder.wav", "nested.wav"), []byte("x"), 0o644))

	files, err := Discover(dir, []string{".wav"})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "Alpha.WAV"),
		filepath.Join(dir, "mid.Wav"),
		filepath.Join(dir, "zeta.wav"),
	}, files)
}

func TestDiscoverMultipleExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.mp3", "b.wav", "c.ogg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := Discover(dir, []string{".wav", ".mp3"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.mp3"), filepath.Join(dir, "b.wav")}, files)
}

func TestDiscoverFollowsFileSymlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.wav")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.wav")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.wav"), filepath.Join(dir, "dangling.wav")))

	files, err := Discover(dir, []string{".wav"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "link.wav")}, files)
}

func TestDiscoverMissingDir(t *testing.T) {
	t.Parallel()

	files, err := Discover(filepath.Join(t.TempDir(), "nope"), []string{".wav"})
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestDiscoverPathIsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file.wav")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := Discover(path, []string{".wav"})
	require.Error(t, err)
}

func TestStemAndOutputPath(t *testing.T) {
	t.Parallel()

	require.Equal(t, "B", Stem(filepath.Join("in", "B.WAV")))
	require.Equal(t, "take.1", Stem("take.1.wav"))
	require.Equal(t, filepath.Join("out", "take.1.txt"), OutputPath("out", filepath.Join("in", "take.1.wav")))
}

func TestEnsureOutputDirIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, EnsureOutputDir(dir))
	require.NoError(t, EnsureOutputDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
