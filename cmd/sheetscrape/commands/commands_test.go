package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/sheetscrape/exporter"
	"github.com/use-agent/sheetscrape/models"
)

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	return ExecuteContext(context.Background()), out.String()
}

func TestLaptopsCommand(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			return
		}
		for i := range 2 {
			fmt.Fprintf(w, `<div class="thumbnail"><span class="price">$%d</span><a class="title">L%d</a><p class="description">d</p></div>`, i+1, i)
		}
	}))
	defer site.Close()

	path := filepath.Join(t.TempDir(), "out.xlsx")
	code, out := execute(t, "laptops", "--base-url", site.URL, "--out", path, "--rate", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "records")

	rows, err := exporter.ReadSheet(path, "Laptops")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"L1", "2", "4", "d"}, rows[2])
}

func TestPublicAPIsCommand_FailureExitsOne(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer site.Close()

	dir := t.TempDir()
	code, _ := execute(t, "public-apis", "--url", site.URL,
		"--xlsx", filepath.Join(dir, "a.xlsx"), "--pdf", filepath.Join(dir, "a.pdf"))
	assert.Equal(t, 1, code)
}

func TestLaptopsCommand_InvalidConfig(t *testing.T) {
	code, _ := execute(t, "laptops", "--base-url", "ftp://nowhere", "--out", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Equal(t, 1, code)
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	rows := make([]models.Product, 30)
	for i := range rows {
		rows[i] = models.Product{Title: fmt.Sprintf("Laptop %02d", i), PriceUSD: 1, PriceNGN: 2, Description: strings.Repeat("x", 80)}
	}
	require.NoError(t, exporter.SaveWorkbook(path, "Laptops", models.ProductHeaders, models.ProductRows(rows), nil))

	code, out := execute(t, "inspect", path, "--limit", "5")
	require.Equal(t, 0, code)

	assert.Contains(t, out, "Laptop 04")
	assert.NotContains(t, out, "Laptop 05")
	assert.Contains(t, strings.ToLower(out), "5 of 30 rows")
	assert.NotContains(t, out, strings.Repeat("x", 41))
}
