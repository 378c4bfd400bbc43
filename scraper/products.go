package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sheetscrape/models"
)

// ProductOptions configures one paginated laptop scrape.
type ProductOptions struct {
	BaseURL        string
	MaxEntries     int
	ExchangeRate   float64
	CurrencySymbol string
	Selectors      ProductSelectors
}

// Products walks catalogue pages 1, 2, … and accumulates products until
// MaxEntries is reached, a page has no candidate nodes or no usable ones,
// or a page answers with a non-success status. Those last cases end the
// loop with the partial result and a nil error. Transport failures abort with a FETCH_FAILED
// *models.ScrapeError alongside the products gathered so far.
func (s *Scraper) Products(ctx context.Context, opts ProductOptions) (*models.ProductRun, error) {
	sels, err := compileProductSelectors(opts.Selectors)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid product selectors", err)
	}

	run := &models.ProductRun{
		Products:   make([]models.Product, 0, min(max(opts.MaxEntries, 0), 1024)),
		StopReason: models.StopCap,
	}

	for page := 1; len(run.Products) < opts.MaxEntries; page++ {
		if err := ctx.Err(); err != nil {
			return run, models.NewScrapeError(models.ErrCodeFetchFailed, "scrape cancelled", err)
		}

		pageURL, err := PageURL(opts.BaseURL, page)
		if err != nil {
			return run, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid base url", err)
		}

		slog.Info("scraping page", "page", page, "url", pageURL)
		res, err := s.fetch(ctx, pageURL)
		if err != nil {
			return run, err
		}
		run.Pages++
		run.LastStatus = res.StatusCode

		if !res.OK() {
			slog.Warn("failed to load page, keeping partial results",
				"page", page,
				"status", res.StatusCode,
				"records", len(run.Products),
			)
			run.StopReason = models.StopStatus
			return run, nil
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
		if err != nil {
			return run, models.NewScrapeError(models.ErrCodeFetchFailed, "failed to parse "+pageURL, err)
		}

		items := doc.FindMatcher(sels.item)
		if items.Length() == 0 {
			slog.Info("no more products", "page", page)
			run.StopReason = models.StopExhausted
			return run, nil
		}

		before := len(run.Products)
		items.EachWithBreak(func(i int, item *goquery.Selection) bool {
			if len(run.Products) >= opts.MaxEntries {
				return false
			}
			p, err := extractProduct(item, sels, opts.ExchangeRate, opts.CurrencySymbol)
			if err != nil {
				run.Skipped++
				slog.Warn("skipping product", "page", page, "index", i, "error", err)
				return true
			}
			if !p.PriceParsed {
				slog.Debug("price fell back to zero", "page", page, "title", p.Title)
			}
			run.Products = append(run.Products, p)
			return true
		})

		// A page of only skipped nodes makes no progress toward the cap.
		if len(run.Products) == before {
			slog.Warn("page yielded no usable products", "page", page, "skipped", run.Skipped)
			run.StopReason = models.StopExhausted
			return run, nil
		}
	}

	return run, nil
}
