package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/exporter"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/scraper"
)

// ProductOptions maps the laptops configuration onto scraper options.
func ProductOptions(cfg config.LaptopsConfig) scraper.ProductOptions {
	return scraper.ProductOptions{
		BaseURL:        cfg.BaseURL,
		MaxEntries:     cfg.MaxEntries,
		ExchangeRate:   cfg.ExchangeRate,
		CurrencySymbol: cfg.CurrencySymbol,
		Selectors: scraper.ProductSelectors{
			Item:        cfg.ItemSelector,
			Title:       cfg.TitleSelector,
			Price:       cfg.PriceSelector,
			Description: cfg.DescriptionSelector,
		},
	}
}

// CollectProducts runs the paginated scrape without exporting anything.
// A page answering with a non-success status ends the loop early; the
// products gathered before it are kept.
func CollectProducts(ctx context.Context, deps *Deps, cfg config.LaptopsConfig) (*models.ProductRun, error) {
	run, err := deps.Scraper.Products(ctx, ProductOptions(cfg))
	if err != nil {
		return nil, err
	}
	if run.StopReason == models.StopStatus {
		slog.Warn("catalogue stopped early, keeping partial results",
			"status", run.LastStatus,
			"page", run.Pages,
			"products", len(run.Products),
		)
	}
	return run, nil
}

// Laptops scrapes the catalogue and writes one workbook of products.
func Laptops(ctx context.Context, deps *Deps, cfg config.LaptopsConfig) (*models.RunResult, error) {
	start := time.Now()

	run, err := CollectProducts(ctx, deps, cfg)
	if err != nil {
		return nil, err
	}

	rows := models.ProductRows(run.Products)
	if err := exporter.SaveWorkbook(cfg.Output, cfg.SheetName, models.ProductHeaders, rows, nil); err != nil {
		return nil, exportError("workbook", err)
	}
	slog.Info("saved workbook", "path", cfg.Output, "records", len(rows))

	return productResult(models.PipelineLaptops, run, start, cfg.Output), nil
}

// LaptopsWithChart is Laptops plus a column chart of the first ten prices,
// written to cfg.ChartOutput. When cfg.ChartImage is set the same chart is
// also rendered as PNG. An empty result gets no chart.
func LaptopsWithChart(ctx context.Context, deps *Deps, cfg config.LaptopsConfig) (*models.RunResult, error) {
	start := time.Now()

	run, err := CollectProducts(ctx, deps, cfg)
	if err != nil {
		return nil, err
	}

	spec := exporter.TopPricesChart()
	rows := models.ProductRows(run.Products)
	if err := exporter.SaveWorkbook(cfg.ChartOutput, cfg.SheetName, models.ProductHeaders, rows, spec); err != nil {
		return nil, exportError("workbook", err)
	}
	slog.Info("saved workbook with chart",
		"path", cfg.ChartOutput,
		"records", len(rows),
		"charted", spec.Rows(len(rows)),
	)

	res := productResult(models.PipelineLaptopsChart, run, start, cfg.ChartOutput)

	if cfg.ChartImage != "" {
		labels, values := ChartSeries(run.Products)
		switch err := exporter.SaveChartPNG(cfg.ChartImage, spec, labels, values); {
		case errors.Is(err, exporter.ErrNoBars):
			slog.Warn("no products to chart, skipping image", "path", cfg.ChartImage)
		case err != nil:
			return nil, exportError("chart image", err)
		default:
			slog.Info("saved chart image", "path", cfg.ChartImage)
			res.Outputs = append(res.Outputs, cfg.ChartImage)
		}
	}

	res.Duration = since(start)
	return res, nil
}

// ChartSeries returns titles and USD prices in scrape order.
func ChartSeries(products []models.Product) ([]string, []float64) {
	labels := make([]string, len(products))
	values := make([]float64, len(products))
	for i, p := range products {
		labels[i] = p.Title
		values[i] = p.PriceUSD
	}
	return labels, values
}

func productResult(id string, run *models.ProductRun, start time.Time, output string) *models.RunResult {
	return &models.RunResult{
		Pipeline:   id,
		Records:    len(run.Products),
		Pages:      run.Pages,
		Skipped:    run.Skipped,
		StopReason: run.StopReason,
		Outputs:    []string{output},
		Duration:   since(start),
	}
}
