package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/sheetscrape/exporter"
	"github.com/use-agent/sheetscrape/models"
)

type client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func newClient(apiURL, apiKey string) *client {
	return &client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: 5 * time.Minute},
	}
}

// export posts an ExportRequest in JSON format and decodes the reply.
func (c *client) export(ctx context.Context, req models.ExportRequest) (*models.ExportResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/v1/export", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out models.ExportResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

func (c *client) handleExport(pipelineID string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := models.ExportRequest{Pipeline: pipelineID, Format: models.FormatJSON}
		if v, ok := request.GetArguments()["max_entries"].(float64); ok && v > 0 {
			req.MaxEntries = int(v)
		}
		format := request.GetString("format", "markdown")

		resp, err := c.export(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
		}
		if !resp.Success {
			errMsg := "export failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		if format == "json" {
			pretty, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to encode records: %v", err)), nil
			}
			return mcp.NewToolResultText(string(pretty)), nil
		}

		var sb strings.Builder
		if r := resp.Result; r != nil {
			fmt.Fprintf(&sb, "Pipeline: %s\nRecords: %d\nPages: %d\nStopped by: %s\n\n",
				r.Pipeline, r.Records, r.Pages, r.StopReason)
		}
		title := pipelineID + " (Preview)"
		if pipelineID == models.PipelinePublicAPIs {
			title = exporter.PublicAPIsTitle
		}
		if err := exporter.WritePreviewMarkdown(&sb, title, resp.Headers, exporter.StringRows(resp.Rows)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render preview: %v", err)), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
