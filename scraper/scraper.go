package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/use-agent/sheetscrape/engine"
	"github.com/use-agent/sheetscrape/models"
)

// Scraper turns fetched pages into records. It issues requests strictly
// one after another and holds no state between calls.
type Scraper struct {
	engine engine.Engine
}

// NewScraper creates a Scraper that fetches through e.
func NewScraper(e engine.Engine) *Scraper {
	return &Scraper{engine: e}
}

// fetch issues one GET and converts transport failures into run-level errors.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*engine.FetchResult, error) {
	res, err := s.engine.Fetch(ctx, &engine.FetchRequest{URL: pageURL})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed, "failed to fetch "+pageURL, err)
	}
	slog.Debug("page fetched",
		"url", pageURL,
		"status", res.StatusCode,
		"bytes", len(res.HTML),
		"title", res.Title,
		"engine", res.EngineName,
	)
	return res, nil
}

// PageURL returns the URL of a catalogue page: base itself for page 1,
// base with a "page" query parameter otherwise. Existing query
// parameters are preserved.
func PageURL(base string, page int) (string, error) {
	if page <= 1 {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("scraper: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
