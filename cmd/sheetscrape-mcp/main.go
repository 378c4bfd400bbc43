package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("SHEETSCRAPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SHEETSCRAPE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SHEETSCRAPE_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"sheetscrape",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	c := newClient(apiURL, apiKey)

	scrapeLaptopsTool := mcp.NewTool("scrape_laptops",
		mcp.WithDescription("Scrape the paginated laptop catalogue and return title, USD price, NGN price and description for each listing, in catalogue order."),
		mcp.WithNumber("max_entries",
			mcp.Description("Maximum number of laptops to collect (default: server setting, max: 1000)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default, a table preview of at most 100 rows) or 'json' (every record)"),
			mcp.Enum("markdown", "json"),
		),
	)
	s.AddTool(scrapeLaptopsTool, c.handleExport("laptops"))

	scrapePublicAPIsTool := mcp.NewTool("scrape_public_apis",
		mcp.WithDescription("Scrape the public-apis README and return its tables merged into one: API name, description, auth, HTTPS, CORS."),
		mcp.WithString("format",
			mcp.Description("Output format: 'markdown' (default, a table preview of at most 100 rows) or 'json' (every record)"),
			mcp.Enum("markdown", "json"),
		),
	)
	s.AddTool(scrapePublicAPIsTool, c.handleExport("public-apis"))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
