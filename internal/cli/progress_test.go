package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartSpinnerEnabled(t *testing.T) {
	t.Parallel()
	stop := startSpinner(true, "Transcribing a")
	require.NotNil(t, stop)
	stop()
	stop()
}

func TestStartSpinnerDisabled(t *testing.T) {
	t.Parallel()
	stop := startSpinner(false, "Transcribing a")
	require.NotNil(t, stop)
	stop()
}
