package cli

import (
	"fmt"
	"runtime"

	"github.com/fmueller/batchscribe/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		// version needs neither a logger nor a config file
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "batchscribe v%s (commit %s, built %s, %s/%s)\n", version.Resolve(), version.Commit, version.Date, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
