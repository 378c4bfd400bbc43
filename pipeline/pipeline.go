// Package pipeline wires the scraper to the exporters. Each entry point runs
// one fetch-transform-export pass sequentially and reports a RunResult.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/engine"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/scraper"
	"github.com/use-agent/sheetscrape/webhook"
)

// Deps are the collaborators shared by every run.
type Deps struct {
	Scraper *scraper.Scraper

	// Notifier is nil when no webhook is configured.
	Notifier *webhook.Notifier
}

// NewDeps builds the production dependencies from cfg.
func NewDeps(cfg *config.Config) *Deps {
	return &Deps{
		Scraper:  scraper.NewScraper(engine.NewHTTPEngine(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)),
		Notifier: webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret),
	}
}

// IDs lists the runnable pipelines.
var IDs = []string{models.PipelineLaptops, models.PipelineLaptopsChart, models.PipelinePublicAPIs}

// Run executes the pipeline named id and, when a webhook is configured,
// reports the outcome to it. Delivery failures are logged, never returned.
func Run(ctx context.Context, deps *Deps, cfg *config.Config, id string) (*models.RunResult, error) {
	var (
		res *models.RunResult
		err error
	)
	switch id {
	case models.PipelineLaptops:
		res, err = Laptops(ctx, deps, cfg.Laptops)
	case models.PipelineLaptopsChart:
		res, err = LaptopsWithChart(ctx, deps, cfg.Laptops)
	case models.PipelinePublicAPIs:
		res, err = PublicAPIs(ctx, deps, cfg.PublicAPIs)
	default:
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, fmt.Sprintf("unknown pipeline %q", id), nil)
	}

	if err != nil {
		slog.Error("run failed", "pipeline", id, "error", err)
	}
	if nerr := deps.Notifier.Notify(ctx, webhook.NewRunEvent(id, res, err)); nerr != nil {
		slog.Warn("run notification not delivered", "pipeline", id, "error", nerr)
	}
	return res, err
}

func exportError(what string, err error) error {
	return models.NewScrapeError(models.ErrCodeExport, "failed to save "+what, err)
}

func since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
