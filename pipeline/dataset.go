package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/exporter"
	"github.com/use-agent/sheetscrape/models"
)

// Dataset is the in-memory outcome of a pipeline run, before any file is
// written. The HTTP API renders it straight into the response body.
type Dataset struct {
	Result  *models.RunResult
	Sheet   string
	Title   string
	Headers []string
	Rows    [][]any

	// Chart is set for laptops-chart only.
	Chart *exporter.ChartSpec
}

// Collect runs the fetch and extraction stages of pipeline id. maxEntries
// overrides the configured laptop cap when positive.
func Collect(ctx context.Context, deps *Deps, cfg *config.Config, id string, maxEntries int) (*Dataset, error) {
	start := time.Now()

	switch id {
	case models.PipelineLaptops, models.PipelineLaptopsChart:
		lc := cfg.Laptops
		if maxEntries > 0 {
			lc.MaxEntries = maxEntries
		}
		run, err := CollectProducts(ctx, deps, lc)
		if err != nil {
			return nil, err
		}
		ds := &Dataset{
			Result:  productResult(id, run, start, ""),
			Sheet:   lc.SheetName,
			Title:   lc.SheetName + " (Preview)",
			Headers: models.ProductHeaders,
			Rows:    models.ProductRows(run.Products),
		}
		ds.Result.Outputs = nil
		if id == models.PipelineLaptopsChart {
			ds.Chart = exporter.TopPricesChart()
		}
		return ds, nil

	case models.PipelinePublicAPIs:
		run, err := CollectTable(ctx, deps, cfg.PublicAPIs)
		if err != nil {
			return nil, err
		}
		return &Dataset{
			Result: &models.RunResult{
				Pipeline:   id,
				Records:    len(run.Table.Rows),
				Pages:      1,
				Dropped:    run.Dropped,
				StopReason: models.StopSingle,
				Duration:   since(start),
			},
			Sheet:   cfg.PublicAPIs.SheetName,
			Title:   exporter.PublicAPIsTitle,
			Headers: run.Table.Headers,
			Rows:    run.Table.AnyRows(),
		}, nil
	}

	return nil, models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("unknown pipeline %q", id), nil)
}

// Write renders the dataset in format to w.
func (d *Dataset) Write(w io.Writer, format string) error {
	var err error
	switch format {
	case models.FormatXLSX:
		err = exporter.WriteWorkbook(w, d.Sheet, d.Headers, d.Rows, d.Chart)
	case models.FormatPDF:
		err = exporter.WritePreviewPDF(w, d.Title, d.Headers, exporter.StringRows(d.Rows))
	case models.FormatMarkdown:
		err = exporter.WritePreviewMarkdown(w, d.Title, d.Headers, exporter.StringRows(d.Rows))
	default:
		return models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return models.NewScrapeError(models.ErrCodeExport, "failed to render "+format, err)
	}
	return nil
}
