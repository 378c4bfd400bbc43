package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sheetscrape/cache"
	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/pipeline"
	"github.com/use-agent/sheetscrape/webhook"
)

var contentTypes = map[string]string{
	models.FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	models.FormatPDF:      "application/pdf",
	models.FormatMarkdown: "text/markdown; charset=utf-8",
}

// Export returns a handler for POST /api/v1/export.
//
// The run is collected in memory and rendered into the response body: a
// workbook, a preview document, or JSON records. Nothing is written to the
// server's disk. With max_age set, a recent dataset from cc may be reused.
func Export(deps *pipeline.Deps, cfg *config.Config, cc *cache.Cache[*pipeline.Dataset]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ExportResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		key := cache.Key(req.Pipeline, req.MaxEntries)
		maxAge := time.Duration(req.MaxAge) * time.Millisecond

		ds, hit := cc.Get(key, maxAge)
		if hit {
			c.Header("X-Sheetscrape-Cache", "hit")
		} else {
			var err error
			ds, err = pipeline.Collect(c.Request.Context(), deps, cfg, req.Pipeline, req.MaxEntries)
			if err != nil {
				deps.Notifier.NotifyAsync(webhook.NewRunEvent(req.Pipeline, nil, err))
				respondError(c, err)
				return
			}
			deps.Notifier.NotifyAsync(webhook.NewRunEvent(req.Pipeline, ds.Result, nil))
			cc.Set(key, ds)
			c.Header("X-Sheetscrape-Cache", "miss")
		}

		c.Header("X-Sheetscrape-Records", strconv.Itoa(ds.Result.Records))
		c.Header("X-Sheetscrape-Stop-Reason", string(ds.Result.StopReason))

		if req.Format == models.FormatJSON {
			c.JSON(http.StatusOK, models.ExportResponse{
				Success: true,
				Result:  ds.Result,
				Headers: ds.Headers,
				Rows:    ds.Rows,
			})
			return
		}

		var buf bytes.Buffer
		if err := ds.Write(&buf, req.Format); err != nil {
			respondError(c, err)
			return
		}

		slog.Info("export served",
			"pipeline", req.Pipeline,
			"format", req.Format,
			"records", ds.Result.Records,
			"bytes", buf.Len(),
		)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, req.Pipeline, req.Format))
		c.Data(http.StatusOK, contentTypes[req.Format], buf.Bytes())
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.ExportResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeFetchFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeNoData:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
