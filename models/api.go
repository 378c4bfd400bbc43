package models

// Export formats accepted by POST /api/v1/export.
const (
	FormatXLSX     = "xlsx"
	FormatPDF      = "pdf"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// ExportRequest is the payload for POST /api/v1/export.
type ExportRequest struct {
	// Pipeline selects the scrape: "laptops", "laptops-chart" or "public-apis". Required.
	Pipeline string `json:"pipeline" binding:"required,oneof=laptops laptops-chart public-apis"`

	// Format controls the response body.
	// Allowed: "xlsx" (default), "pdf", "md", "json".
	// "pdf" and "md" are previews of at most 100 rows.
	Format string `json:"format,omitempty" binding:"omitempty,oneof=xlsx pdf md json"`

	// MaxEntries overrides the record cap of the laptop pipelines.
	// Default: server configuration. Max: 1000.
	MaxEntries int `json:"max_entries,omitempty" binding:"omitempty,min=1,max=1000"`

	// MaxAge, in milliseconds, allows serving a dataset collected at most
	// this long ago by an identical request. 0 always scrapes.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ExportRequest) Defaults() {
	if r.Format == "" {
		r.Format = FormatXLSX
	}
}

// ExportResponse is the JSON body for format "json" and for all errors.
type ExportResponse struct {
	Success bool         `json:"success"`
	Result  *RunResult   `json:"result,omitempty"`
	Headers []string     `json:"headers,omitempty"`
	Rows    [][]any      `json:"rows,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string   `json:"status"`
	Uptime    string   `json:"uptime"`
	Pipelines []string `json:"pipelines"`
	Version   string   `json:"version"`
}
