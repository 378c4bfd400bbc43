package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/sheetscrape/engine"
	"github.com/use-agent/sheetscrape/models"
)

// fakeEngine serves canned pages keyed by URL and records every request.
type fakeEngine struct {
	pages    map[string]*engine.FetchResult
	fallback *engine.FetchResult
	err      map[string]error
	requests []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	f.requests = append(f.requests, req.URL)
	if err, ok := f.err[req.URL]; ok {
		return nil, err
	}
	if res, ok := f.pages[req.URL]; ok {
		return res, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return &engine.FetchResult{StatusCode: http.StatusNotFound}, nil
}

const base = "https://shop.test/laptops"

func pageOK(html string) *engine.FetchResult {
	return &engine.FetchResult{HTML: html, StatusCode: http.StatusOK}
}

// catalogue renders n listings whose titles start at offset.
func catalogue(offset, n int) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"row\">")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<div class="thumbnail">
			<h4 class="price">$%d.99</h4>
			<a class="title" title="Laptop %d"> Laptop %d </a>
			<p class="description"> Model %d, 8GB </p>
		</div>`, 100+offset+i, offset+i, offset+i, offset+i)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func pageURLs(t *testing.T, n int) []string {
	urls := make([]string, 0, n)
	for p := 1; p <= n; p++ {
		u, err := PageURL(base, p)
		require.NoError(t, err)
		urls = append(urls, u)
	}
	return urls
}

func defaultOpts(maxEntries int) ProductOptions {
	return ProductOptions{
		BaseURL:        base,
		MaxEntries:     maxEntries,
		ExchangeRate:   1500,
		CurrencySymbol: "$",
		Selectors:      DefaultProductSelectors,
	}
}

func TestPageURL(t *testing.T) {
	u, err := PageURL(base, 1)
	require.NoError(t, err)
	assert.Equal(t, base, u)

	u, err = PageURL(base, 3)
	require.NoError(t, err)
	assert.Equal(t, base+"?page=3", u)

	u, err = PageURL(base+"?sort=asc", 2)
	require.NoError(t, err)
	assert.Equal(t, base+"?page=2&sort=asc", u)
}

func TestProducts_ExtractsAndConverts(t *testing.T) {
	urls := pageURLs(t, 2)
	fe := &fakeEngine{pages: map[string]*engine.FetchResult{
		urls[0]: pageOK(catalogue(0, 2)),
		urls[1]: pageOK("<html><body>nothing here</body></html>"),
	}}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	require.Len(t, run.Products, 2)
	assert.Equal(t, models.Product{
		Title:       "Laptop 0",
		PriceUSD:    100.99,
		PriceNGN:    151485,
		Description: "Model 0, 8GB",
		PriceParsed: true,
	}, run.Products[0])
	assert.Equal(t, models.StopExhausted, run.StopReason)
	assert.Equal(t, 2, run.Pages)
	assert.Equal(t, urls, fe.requests)
}

func TestProducts_NeverExceedsCap(t *testing.T) {
	for _, tc := range []struct{ perPage, maxEntries int }{
		{6, 1}, {6, 5}, {6, 6}, {6, 7}, {6, 18}, {1, 3}, {4, 10},
	} {
		t.Run(fmt.Sprintf("%d_per_page_cap_%d", tc.perPage, tc.maxEntries), func(t *testing.T) {
			fe := &fakeEngine{fallback: pageOK(catalogue(0, tc.perPage))}

			run, err := NewScraper(fe).Products(context.Background(), defaultOpts(tc.maxEntries))
			require.NoError(t, err)

			assert.Len(t, run.Products, tc.maxEntries)
			assert.Equal(t, models.StopCap, run.StopReason)

			// ceil(cap / items per page)
			wantPages := (tc.maxEntries + tc.perPage - 1) / tc.perPage
			assert.Equal(t, wantPages, len(fe.requests))
		})
	}
}

func TestProducts_ZeroCapFetchesNothing(t *testing.T) {
	fe := &fakeEngine{fallback: pageOK(catalogue(0, 3))}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(0))
	require.NoError(t, err)

	assert.Empty(t, run.Products)
	assert.Empty(t, fe.requests)
}

func TestProducts_StopsImmediatelyOnEmptyPage(t *testing.T) {
	fe := &fakeEngine{fallback: pageOK("<html><body></body></html>")}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	assert.Empty(t, run.Products)
	assert.Equal(t, models.StopExhausted, run.StopReason)
	assert.Len(t, fe.requests, 1)
}

func TestProducts_NonSuccessKeepsPartialResults(t *testing.T) {
	urls := pageURLs(t, 3)
	fe := &fakeEngine{pages: map[string]*engine.FetchResult{
		urls[0]: pageOK(catalogue(0, 3)),
		urls[1]: pageOK(catalogue(3, 3)),
		urls[2]: {StatusCode: http.StatusServiceUnavailable, HTML: "busy"},
	}}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	assert.Len(t, run.Products, 6)
	assert.Equal(t, models.StopStatus, run.StopReason)
	assert.Equal(t, http.StatusServiceUnavailable, run.LastStatus)
	assert.Equal(t, 3, run.Pages)
}

func TestProducts_TransportErrorIsRunFailure(t *testing.T) {
	urls := pageURLs(t, 2)
	cause := errors.New("connection reset")
	fe := &fakeEngine{
		pages: map[string]*engine.FetchResult{urls[0]: pageOK(catalogue(0, 2))},
		err:   map[string]error{urls[1]: cause},
	}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.Error(t, err)

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeFetchFailed, se.Code)
	assert.ErrorIs(t, err, cause)
	assert.Len(t, run.Products, 2)
}

func TestProducts_SkipsNodesWithMissingFields(t *testing.T) {
	html := `<div class="thumbnail"><span class="price">$10</span><p class="description">no title</p></div>
		<div class="thumbnail"><a class="title">No description</a><span class="price">$10</span></div>
		<div class="thumbnail"><a class="title">Good</a><span class="price">$10</span><p class="description">ok</p></div>`
	urls := pageURLs(t, 1)
	fe := &fakeEngine{pages: map[string]*engine.FetchResult{urls[0]: pageOK(html)}}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	require.Len(t, run.Products, 1)
	assert.Equal(t, "Good", run.Products[0].Title)
	assert.Equal(t, 2, run.Skipped)
}

func TestProducts_StopsWhenEveryNodeIsSkipped(t *testing.T) {
	untitled := `<div class="thumbnail"><span class="price">$10</span><p class="description">a</p></div>
		<div class="thumbnail"><span class="price">$20</span><p class="description">b</p></div>`
	fe := &fakeEngine{fallback: pageOK(untitled)}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(4))
	require.NoError(t, err)

	assert.Empty(t, run.Products)
	assert.Equal(t, 2, run.Skipped)
	assert.Equal(t, models.StopExhausted, run.StopReason)
	assert.Len(t, fe.requests, 1)
}

func TestProducts_StopsAfterUsablePagesRunOut(t *testing.T) {
	untitled := `<div class="thumbnail"><span class="price">$10</span><p class="description">a</p></div>`
	urls := pageURLs(t, 2)
	fe := &fakeEngine{
		pages:    map[string]*engine.FetchResult{urls[0]: pageOK(catalogue(0, 3))},
		fallback: pageOK(untitled),
	}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	assert.Len(t, run.Products, 3)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, models.StopExhausted, run.StopReason)
	assert.Equal(t, urls, fe.requests)
}

func TestProducts_UnparsablePriceFallsBackToZero(t *testing.T) {
	html := `<div class="thumbnail"><a class="title">A</a><span class="price">Call us</span><p class="description">d</p></div>
		<div class="thumbnail"><a class="title">B</a><p class="description">no price node</p></div>`
	urls := pageURLs(t, 1)
	fe := &fakeEngine{pages: map[string]*engine.FetchResult{urls[0]: pageOK(html)}}

	run, err := NewScraper(fe).Products(context.Background(), defaultOpts(500))
	require.NoError(t, err)

	require.Len(t, run.Products, 2)
	for _, p := range run.Products {
		assert.Zero(t, p.PriceUSD)
		assert.Zero(t, p.PriceNGN)
		assert.False(t, p.PriceParsed)
	}
}

func TestProducts_InvalidSelector(t *testing.T) {
	opts := defaultOpts(5)
	opts.Selectors.Item = "div[["

	_, err := NewScraper(&fakeEngine{}).Products(context.Background(), opts)

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeInvalidInput, se.Code)
}

func TestProducts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fe := &fakeEngine{fallback: pageOK(catalogue(0, 3))}

	_, err := NewScraper(fe).Products(ctx, defaultOpts(5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fe.requests)
}
