package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fmueller/batchscribe/internal/batch"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(stats batch.Stats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "File", "Status", "Audio", "Elapsed", "Output"})

	for _, item := range stats.Items {
		status := "ok"
		detail := item.Output
		if !item.OK() {
			status = "failed"
			detail = text.Trim(item.Err.Error(), 60)
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(item.Index),
			item.Stem,
			status,
			formatDuration(item.AudioDuration),
			formatDuration(item.Elapsed),
			detail,
		})
	}

	footer := fmt.Sprintf("%d ok, %d failed", stats.Succeeded, stats.Failed)
	if stats.Interrupted {
		footer += fmt.Sprintf(", %d not attempted", stats.Total-len(stats.Items))
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d files", stats.Total), footer, formatDuration(stats.AudioDuration()), formatDuration(stats.Elapsed()), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	return tw.Render()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
