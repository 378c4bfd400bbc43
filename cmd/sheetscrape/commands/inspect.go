package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/sheetscrape/cleaner"
	"github.com/use-agent/sheetscrape/exporter"
)

var inspectOpts struct {
	sheet string
	limit int
	width int
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectOpts.sheet, "sheet", "", "Sheet to print; defaults to the first sheet.")
	f.IntVar(&inspectOpts.limit, "limit", 20, "Maximum number of data rows to print; 0 prints all.")
	f.IntVar(&inspectOpts.width, "width", 40, "Truncate cells to this many characters; 0 disables.")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xlsx> [--sheet S]",
	Short: "Prints the rows of a workbook written by sheetscrape.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := exporter.ReadSheet(args[0], inspectOpts.sheet)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("%s: sheet is empty", args[0])
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(toRow(rows[0]))

		data := rows[1:]
		if inspectOpts.limit > 0 && len(data) > inspectOpts.limit {
			data = data[:inspectOpts.limit]
		}
		for _, r := range data {
			t.AppendRow(toRow(r))
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d of %d rows", len(data), len(rows)-1)})
		t.Render()
		return nil
	},
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		if inspectOpts.width > 0 {
			c = cleaner.Truncate(c, inspectOpts.width)
		}
		row[i] = c
	}
	return row
}
