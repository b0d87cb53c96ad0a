package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fmueller/batchscribe/internal/whisper"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newModelsCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known speech models and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelDir, err := app.modelStorageDir()
			if err != nil {
				return err
			}

			selected, _ := whisper.LookupModel(app.cfg.Model)

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.Style().Format.Header = text.FormatDefault
			tw.AppendHeader(table.Row{"", "Model", "Size", "Installed", "Path"})
			for _, model := range whisper.Catalog() {
				marker := ""
				if model.Name == selected.Name {
					marker = "*"
				}
				installed := "no"
				if model.Installed(modelDir) {
					installed = "yes"
				}
				tw.AppendRow(table.Row{
					marker,
					model.Name,
					fmt.Sprintf("%d MB", model.SizeMB),
					installed,
					filepath.Join(modelDir, model.FileName),
				})
			}
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 3, Align: text.AlignRight},
			})

			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	}
}
