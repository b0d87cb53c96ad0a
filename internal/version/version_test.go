package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeSettings(values map[string]string, ok bool) func() (map[string]string, bool) {
	return func() (map[string]string, bool) {
		return values, ok
	}
}

func TestResolveVersion_ReleaseCommitSkipsSuffix(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "abc123", fakeSettings(map[string]string{"vcs.revision": "deadbeef"}, true))
	require.Equal(t, "1.2.0", got)
}

func TestResolveVersion_NoBuildInfo(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "unknown", fakeSettings(nil, false))
	require.Equal(t, "1.2.0", got)
}

func TestResolveVersion_NoRevision(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "", fakeSettings(map[string]string{"GOOS": "linux"}, true))
	require.Equal(t, "1.2.0", got)
}

func TestResolveVersion_ShortensRevision(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "unknown", fakeSettings(map[string]string{
		"vcs.revision": "0123456789abcdef0123",
		"vcs.modified": "false",
	}, true))
	require.Equal(t, "1.2.0-g0123456789ab", got)
}

func TestResolveVersion_Dirty(t *testing.T) {
	t.Parallel()
	got := resolveVersion("1.2.0", "unknown", fakeSettings(map[string]string{
		"vcs.revision": "abc1234",
		"vcs.modified": "true",
	}, true))
	require.Equal(t, "1.2.0-gabc1234-dirty", got)
}

func TestResolveVersion_EmptyBase(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", "unknown", fakeSettings(nil, false))
	require.Equal(t, "0.0.0", got)
}
