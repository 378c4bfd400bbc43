package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/models"
	"github.com/use-agent/sheetscrape/pipeline"
)

const testKey = "k-test"

func catalogue(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("<html><body>")
	if r.URL.Query().Get("page") == "" {
		for i := range 3 {
			fmt.Fprintf(&b, `<div class="thumbnail"><span class="price">$%d</span><a class="title">L%d</a><p class="description">d%d</p></div>`, 10*(i+1), i, i)
		}
	}
	b.WriteString("</body></html>")
	_, _ = w.Write([]byte(b.String()))
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	site := httptest.NewServer(http.HandlerFunc(catalogue))
	t.Cleanup(site.Close)

	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Laptops.BaseURL = site.URL
	cfg.PublicAPIs.URL = site.URL
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{testKey}}
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100}
	cfg.Webhook = config.WebhookConfig{}
	if mutate != nil {
		mutate(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRouter(ctx, pipeline.NewDeps(cfg), cfg, time.Now())
}

func exportRequest(body string, header, value string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set(header, value)
	}
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.ExportResponse {
	t.Helper()
	var resp models.ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth_NoAuth(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, pipeline.IDs, resp.Pipelines)
}

func TestExport_RequiresKey(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, exportRequest(`{"pipeline":"laptops"}`, "", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, decode(t, w).Error.Code)

	w = serve(r, exportRequest(`{"pipeline":"laptops"}`, "X-API-Key", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExport_AuthDisabled(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) { c.Auth.Enabled = false })

	w := serve(r, exportRequest(`{"pipeline":"laptops","format":"json"}`, "", ""))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExport_JSON(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, exportRequest(`{"pipeline":"laptops","format":"json","max_entries":2}`, "Authorization", "Bearer "+testKey))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, models.ProductHeaders, resp.Headers)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "L0", resp.Rows[0][0])
	assert.Equal(t, 2, resp.Result.Records)
	assert.Equal(t, models.StopCap, resp.Result.StopReason)
	assert.Equal(t, "2", w.Header().Get("X-Sheetscrape-Records"))
}

func TestExport_Workbook(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, exportRequest(`{"pipeline":"laptops-chart"}`, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `laptops-chart.xlsx`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestExport_PDFAndMarkdown(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, exportRequest(`{"pipeline":"laptops","format":"pdf"}`, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = serve(r, exportRequest(`{"pipeline":"laptops","format":"md"}`, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "L2")
}

func TestExport_InvalidRequest(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, body := range []string{
		`{}`,
		`{"pipeline":"bogus"}`,
		`{"pipeline":"laptops","format":"csv"}`,
		`{"pipeline":"laptops","max_entries":5000}`,
		`not json`,
	} {
		w := serve(r, exportRequest(body, "X-API-Key", testKey))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, models.ErrCodeInvalidInput, decode(t, w).Error.Code, body)
	}
}

func TestExport_NoTablesIsUnprocessable(t *testing.T) {
	r := newTestRouter(t, nil)

	w := serve(r, exportRequest(`{"pipeline":"public-apis","format":"json"}`, "X-API-Key", testKey))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, models.ErrCodeNoData, decode(t, w).Error.Code)
}

func TestExport_FetchFailureIsBadGateway(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	r := newTestRouter(t, func(c *config.Config) { c.PublicAPIs.URL = dead.URL })

	w := serve(r, exportRequest(`{"pipeline":"public-apis"}`, "X-API-Key", testKey))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, models.ErrCodeFetchFailed, decode(t, w).Error.Code)
}

func TestExport_RateLimited(t *testing.T) {
	r := newTestRouter(t, func(c *config.Config) {
		c.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.01, Burst: 1}
	})

	w := serve(r, exportRequest(`{"pipeline":"laptops","format":"json"}`, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, exportRequest(`{"pipeline":"laptops","format":"json"}`, "X-API-Key", testKey))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, models.ErrCodeRateLimited, decode(t, w).Error.Code)
}

func TestExport_CachedDataset(t *testing.T) {
	r := newTestRouter(t, nil)
	body := `{"pipeline":"laptops","format":"json","max_age":60000}`

	w := serve(r, exportRequest(body, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "miss", w.Header().Get("X-Sheetscrape-Cache"))

	w = serve(r, exportRequest(body, "X-API-Key", testKey))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hit", w.Header().Get("X-Sheetscrape-Cache"))
	assert.Len(t, decode(t, w).Rows, 3)

	// without max_age the cache is bypassed
	w = serve(r, exportRequest(`{"pipeline":"laptops","format":"json"}`, "X-API-Key", testKey))
	assert.Equal(t, "miss", w.Header().Get("X-Sheetscrape-Cache"))
}
