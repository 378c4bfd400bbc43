package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/sheetscrape/models"
)

// TableOptions configures one single-page table scrape.
type TableOptions struct {
	URL string

	// Container scopes the search; "" searches the whole document.
	Container string
}

// Table fetches one page and extracts its tables. Unlike Products, any
// non-success status is a FETCH_FAILED error.
func (s *Scraper) Table(ctx context.Context, opts TableOptions) (*models.TableRun, error) {
	slog.Info("scraping tables", "url", opts.URL, "container", opts.Container)

	res, err := s.fetch(ctx, opts.URL)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, models.NewScrapeError(
			models.ErrCodeFetchFailed,
			fmt.Sprintf("%s answered HTTP %d", opts.URL, res.StatusCode),
			nil,
		)
	}

	return ExtractTables(res.HTML, opts.Container)
}

var tableSel = cascadia.MustCompile("table")

// ExtractTables selects every table inside container. The header cells of
// the first table's first row define the schema; from every table, each
// row after the first is kept only when its data cell count equals the
// schema width. Other rows are dropped and counted.
func ExtractTables(rawHTML, container string) (*models.TableRun, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse html", err)
	}

	// The container is matched on its own so that a selector list such as
	// "main, article" scopes tables instead of matching its first part.
	scope := doc.Selection
	if container != "" {
		sel, err := cascadia.Compile(container)
		if err != nil {
			return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid container selector", err)
		}
		scope = doc.FindMatcher(sel)
	}

	tables := scope.FindMatcher(tableSel)
	run := &models.TableRun{Tables: tables.Length()}
	if run.Tables == 0 {
		return nil, models.NewScrapeError(models.ErrCodeNoData, fmt.Sprintf("no tables inside %q", container), nil)
	}

	tables.Each(func(ti int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return
		}
		if run.Table.Headers == nil {
			run.Table.Headers = cellTexts(rows.First().Find("th"))
		}
		width := len(run.Table.Headers)

		rows.Slice(1, rows.Length()).Each(func(ri int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() != width {
				run.Dropped++
				slog.Debug("dropping row", "table", ti, "row", ri+1, "cells", cells.Length(), "want", width)
				return
			}
			run.Table.Rows = append(run.Table.Rows, cellTexts(cells))
		})
	})

	if len(run.Table.Headers) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeNoData, "first table has no header cells", nil)
	}

	slog.Info("tables extracted",
		"tables", run.Tables,
		"columns", len(run.Table.Headers),
		"rows", len(run.Table.Rows),
		"dropped", run.Dropped,
	)
	return run, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(c.Text()))
	})
	return texts
}
