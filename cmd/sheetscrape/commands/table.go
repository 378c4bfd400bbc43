package commands

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/sheetscrape/models"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printSummary(w io.Writer, res *models.RunResult) {
	t := newTable(w)
	t.SetTitle("run summary")
	t.AppendRows([]table.Row{
		{"pipeline", res.Pipeline},
		{"records", res.Records},
		{"pages", res.Pages},
		{"skipped", res.Skipped},
		{"dropped", res.Dropped},
		{"stopped by", res.StopReason},
		{"outputs", strings.Join(res.Outputs, "\n")},
		{"took", res.Duration},
	})
	t.Render()
}
