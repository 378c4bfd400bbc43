package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/exporter"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/scraper"
)

// CollectTable fetches the public-apis page and extracts its merged table.
func CollectTable(ctx context.Context, deps *Deps, cfg config.PublicAPIsConfig) (*models.TableRun, error) {
	return deps.Scraper.Table(ctx, scraper.TableOptions{URL: cfg.URL, Container: cfg.Container})
}

// PublicAPIs writes the full table to a workbook and a capped preview to
// PDF, plus a markdown preview when cfg.MarkdownOutput is set.
func PublicAPIs(ctx context.Context, deps *Deps, cfg config.PublicAPIsConfig) (*models.RunResult, error) {
	start := time.Now()

	run, err := CollectTable(ctx, deps, cfg)
	if err != nil {
		return nil, err
	}
	table := run.Table

	if err := exporter.SaveWorkbook(cfg.XLSXOutput, cfg.SheetName, table.Headers, table.AnyRows(), nil); err != nil {
		return nil, exportError("workbook", err)
	}
	slog.Info("saved workbook", "path", cfg.XLSXOutput, "records", len(table.Rows))
	outputs := []string{cfg.XLSXOutput}

	if err := exporter.SavePreviewPDF(cfg.PDFOutput, exporter.PublicAPIsTitle, table.Headers, table.Rows); err != nil {
		return nil, exportError("pdf preview", err)
	}
	slog.Info("saved pdf preview", "path", cfg.PDFOutput, "records", len(exporter.PreviewRows(table.Rows)))
	outputs = append(outputs, cfg.PDFOutput)

	if cfg.MarkdownOutput != "" {
		if err := exporter.SavePreviewMarkdown(cfg.MarkdownOutput, exporter.PublicAPIsTitle, table.Headers, table.Rows); err != nil {
			return nil, exportError("markdown preview", err)
		}
		slog.Info("saved markdown preview", "path", cfg.MarkdownOutput)
		outputs = append(outputs, cfg.MarkdownOutput)
	}

	return &models.RunResult{
		Pipeline:   models.PipelinePublicAPIs,
		Records:    len(table.Rows),
		Pages:      1,
		Dropped:    run.Dropped,
		StopReason: models.StopSingle,
		Outputs:    outputs,
		Duration:   since(start),
	}, nil
}
