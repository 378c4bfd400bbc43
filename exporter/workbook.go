package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ChartSpec describes the bar chart embedded next to the data. Categories
// come from column A and values from column B of the first Rows(n) data rows.
type ChartSpec struct {
	Title      string
	XAxisTitle string
	YAxisTitle string

	// Anchor is the top-left cell of the chart.
	Anchor string

	// MaxRows bounds how many data rows the chart covers.
	MaxRows int

	// Width and Height are in pixels.
	Width  uint
	Height uint
}

// TopPricesChart is the laptops-chart configuration: the first ten products
// by scrape order, 20cm x 10cm, anchored at E2.
func TopPricesChart() *ChartSpec {
	return &ChartSpec{
		Title:      "Top 10 Laptop Prices (USD)",
		XAxisTitle: "Laptop",
		YAxisTitle: "Price (USD)",
		Anchor:     "E2",
		MaxRows:    10,
		Width:      756,
		Height:     378,
	}
}

// Rows returns the number of data rows the chart references for n records.
func (c *ChartSpec) Rows(n int) int {
	return max(min(c.MaxRows, n), 0)
}

// Chart builds the excelize chart for a sheet holding n data rows below a
// header row. It returns nil when there is nothing to plot.
func (c *ChartSpec) Chart(sheet string, n int) *excelize.Chart {
	rows := c.Rows(n)
	if rows == 0 {
		return nil
	}
	last := rows + 1
	ref := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"

	return &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", ref),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:     []excelize.RichTextRun{{Text: c.Title}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.XAxisTitle}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.YAxisTitle}}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: c.Width, Height: c.Height},
	}
}

// NewWorkbook builds a single-sheet workbook: the header row in row 1, then
// one row per record in order. chart may be nil. The caller owns the file
// and must Close it.
func NewWorkbook(sheet string, headers []string, rows [][]any, chart *ChartSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("exporter: name sheet %q: %w", sheet, err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("exporter: write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("exporter: row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("exporter: write row %d: %w", i+1, err)
		}
	}

	if chart != nil {
		if c := chart.Chart(sheet, len(rows)); c != nil {
			if err := f.AddChart(sheet, chart.Anchor, c); err != nil {
				f.Close()
				return nil, fmt.Errorf("exporter: add chart: %w", err)
			}
		}
	}

	return f, nil
}

// WriteWorkbook streams the workbook to w.
func WriteWorkbook(w io.Writer, sheet string, headers []string, rows [][]any, chart *ChartSpec) error {
	f, err := NewWorkbook(sheet, headers, rows, chart)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("exporter: write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path, replacing any existing file.
func SaveWorkbook(path, sheet string, headers []string, rows [][]any, chart *ChartSpec) error {
	f, err := NewWorkbook(sheet, headers, rows, chart)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("exporter: save %s: %w", path, err)
	}
	return nil
}

// ReadSheet returns the raw cell values of a sheet, header row included.
func ReadSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("exporter: open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("exporter: read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
