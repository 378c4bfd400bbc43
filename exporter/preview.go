package exporter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/use-agent/sheetscrape/cleaner"
)

const (
	// PreviewLimit is the maximum number of data rows in a preview document.
	PreviewLimit = 100

	// CellMaxRunes truncates every preview cell.
	CellMaxRunes = 35

	// PublicAPIsTitle heads the public-apis preview.
	PublicAPIsTitle = "Public APIs List (Preview)"

	cellWidth  = 40.0 // mm
	cellHeight = 8.0  // mm
)

// PreviewRows returns at most PreviewLimit rows.
func PreviewRows[T any](rows []T) []T {
	if len(rows) > PreviewLimit {
		return rows[:PreviewLimit]
	}
	return rows
}

// WritePreviewPDF renders an A4 bordered grid of the header row plus at most
// PreviewLimit data rows under a title repeated on every page. Cell text is
// reduced to the core-font charset and truncated to CellMaxRunes.
func WritePreviewPDF(w io.Writer, title string, headers []string, rows [][]string) error {
	return writePreviewPDF(w, title, headers, rows, true)
}

func writePreviewPDF(w io.Writer, title string, headers []string, rows [][]string, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	cell := func(text string) string {
		return tr(cleaner.Truncate(cleaner.SafeText(text), CellMaxRunes))
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(cleaner.SafeText(title)), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 10)
	for _, h := range headers {
		pdf.CellFormat(cellWidth, cellHeight, cell(h), "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range PreviewRows(rows) {
		for _, col := range row {
			pdf.CellFormat(cellWidth, cellHeight, cell(col), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("exporter: render pdf: %w", err)
	}
	return nil
}

// SavePreviewPDF writes the preview document to path, replacing any existing file.
func SavePreviewPDF(path, title string, headers []string, rows [][]string) error {
	return saveFile(path, func(w io.Writer) error {
		return WritePreviewPDF(w, title, headers, rows)
	})
}

// StringRows formats spreadsheet rows as text for the preview exporters.
func StringRows(rows [][]any) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		texts := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case string:
				texts[i] = x
			case float64:
				texts[i] = strconv.FormatFloat(x, 'f', -1, 64)
			default:
				texts[i] = fmt.Sprint(x)
			}
		}
		out = append(out, texts)
	}
	return out
}

// saveFile creates or truncates path and closes it after write returns.
func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("exporter: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("exporter: close %s: %w", path, err)
	}
	return nil
}
