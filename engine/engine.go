package engine

import (
	"context"
)

// Engine is the interface that all page fetchers must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http").
	Name() string

	// Fetch issues one GET for the request. A non-success HTTP status is not
	// an error: the result carries the status and the caller decides.
	// Errors are reserved for transport failures.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the raw outcome of one GET.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}

// OK reports whether the response status is in the 2xx range.
func (r *FetchResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
