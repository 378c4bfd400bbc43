package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
)

// Config holds all application configuration.
type Config struct {
	Laptops    LaptopsConfig
	PublicAPIs PublicAPIsConfig
	HTTP       HTTPConfig
	Server     ServerConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Cache      CacheConfig
	Webhook    WebhookConfig
	Log        LogConfig
}

// LaptopsConfig drives the two paginated laptop pipelines.
type LaptopsConfig struct {
	// BaseURL is the first catalogue page; later pages add ?page=N.
	BaseURL string // default: webscraper.io static laptops

	// ExchangeRate converts USD prices to NGN.
	ExchangeRate float64 // default: 1500

	// MaxEntries caps the number of products collected per run.
	MaxEntries int // default: 500

	// ItemSelector matches one candidate node per product.
	ItemSelector string // default: ".thumbnail"

	TitleSelector       string // default: ".title"
	PriceSelector       string // default: ".price"
	DescriptionSelector string // default: ".description"

	// CurrencySymbol is stripped from the front of the price text.
	CurrencySymbol string // default: "$"

	SheetName   string // default: "Laptops"
	Output      string // default: "webscraper_products.xlsx"
	ChartOutput string // default: "webscraper_products_with_chart.xlsx"

	// ChartImage, if non-empty, also renders the top-10 chart as PNG.
	ChartImage string
}

// PublicAPIsConfig drives the public-apis table pipeline.
type PublicAPIsConfig struct {
	URL string // default: "https://github.com/public-apis/public-apis"

	// Container scopes the table search; tables are selected with "<Container> table".
	Container string // default: "article"

	SheetName      string // default: "Public APIs"
	XLSXOutput     string // default: "public_apis.xlsx"
	PDFOutput      string // default: "public_apis.pdf"
	MarkdownOutput string // optional
}

// HTTPConfig controls the page fetcher.
type HTTPConfig struct {
	// Timeout bounds every single GET.
	Timeout time.Duration // default: 30s

	UserAgent string
}

// ServerConfig controls the HTTP API started by "sheetscrape serve".
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting of inbound API requests.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the API's in-memory store of recent datasets.
// Requests opt in per call with max_age.
type CacheConfig struct {
	MaxEntries int           // default: 32
	TTL        time.Duration // default: 1h
}

// WebhookConfig controls run notifications.
type WebhookConfig struct {
	// URL receives run.completed / run.failed events. Empty disables delivery.
	URL string

	// Secret signs the payload with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

const (
	DefaultLaptopsURL    = "https://webscraper.io/test-sites/e-commerce/static/computers/laptops"
	DefaultPublicAPIsURL = "https://github.com/public-apis/public-apis"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
)

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Laptops: LaptopsConfig{
			BaseURL:             envOr("SHEETSCRAPE_LAPTOPS_URL", DefaultLaptopsURL),
			ExchangeRate:        envFloatOr("SHEETSCRAPE_USD_TO_NGN", 1500),
			MaxEntries:          envIntOr("SHEETSCRAPE_MAX_ENTRIES", 500),
			ItemSelector:        envOr("SHEETSCRAPE_ITEM_SELECTOR", ".thumbnail"),
			TitleSelector:       envOr("SHEETSCRAPE_TITLE_SELECTOR", ".title"),
			PriceSelector:       envOr("SHEETSCRAPE_PRICE_SELECTOR", ".price"),
			DescriptionSelector: envOr("SHEETSCRAPE_DESCRIPTION_SELECTOR", ".description"),
			CurrencySymbol:      envOr("SHEETSCRAPE_CURRENCY_SYMBOL", "$"),
			SheetName:           envOr("SHEETSCRAPE_LAPTOPS_SHEET", "Laptops"),
			Output:              envOr("SHEETSCRAPE_LAPTOPS_XLSX", "webscraper_products.xlsx"),
			ChartOutput:         envOr("SHEETSCRAPE_LAPTOPS_CHART_XLSX", "webscraper_products_with_chart.xlsx"),
			ChartImage:          os.Getenv("SHEETSCRAPE_LAPTOPS_CHART_PNG"),
		},
		PublicAPIs: PublicAPIsConfig{
			URL:            envOr("SHEETSCRAPE_PUBLIC_APIS_URL", DefaultPublicAPIsURL),
			Container:      envOr("SHEETSCRAPE_TABLE_CONTAINER", "article"),
			SheetName:      envOr("SHEETSCRAPE_PUBLIC_APIS_SHEET", "Public APIs"),
			XLSXOutput:     envOr("SHEETSCRAPE_PUBLIC_APIS_XLSX", "public_apis.xlsx"),
			PDFOutput:      envOr("SHEETSCRAPE_PUBLIC_APIS_PDF", "public_apis.pdf"),
			MarkdownOutput: os.Getenv("SHEETSCRAPE_PUBLIC_APIS_MD"),
		},
		HTTP: HTTPConfig{
			Timeout:   envDurationOr("SHEETSCRAPE_HTTP_TIMEOUT", 30*time.Second),
			UserAgent: envOr("SHEETSCRAPE_USER_AGENT", DefaultUserAgent),
		},
		Server: ServerConfig{
			Host: envOr("SHEETSCRAPE_HOST", "0.0.0.0"),
			Port: envIntOr("SHEETSCRAPE_PORT", 8080),
			Mode: envOr("SHEETSCRAPE_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SHEETSCRAPE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SHEETSCRAPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SHEETSCRAPE_RATE_RPS", 1.0),
			Burst:             envIntOr("SHEETSCRAPE_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SHEETSCRAPE_CACHE_ENTRIES", 32),
			TTL:        envDurationOr("SHEETSCRAPE_CACHE_TTL", time.Hour),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SHEETSCRAPE_WEBHOOK_URL"),
			Secret: os.Getenv("SHEETSCRAPE_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("SHEETSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("SHEETSCRAPE_LOG_FORMAT", "text"),
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if err := validateURL(c.Laptops.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("laptops base url: %w", err))
	}
	if err := validateURL(c.PublicAPIs.URL); err != nil {
		errs = append(errs, fmt.Errorf("public apis url: %w", err))
	}
	if c.Laptops.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("max entries must not be negative, got %d", c.Laptops.MaxEntries))
	}
	if c.Laptops.ExchangeRate <= 0 {
		errs = append(errs, fmt.Errorf("exchange rate must be positive, got %v", c.Laptops.ExchangeRate))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %s", c.HTTP.Timeout))
	}

	for name, sel := range map[string]string{
		"item":        c.Laptops.ItemSelector,
		"title":       c.Laptops.TitleSelector,
		"price":       c.Laptops.PriceSelector,
		"description": c.Laptops.DescriptionSelector,
		"container":   c.PublicAPIs.Container,
	} {
		if name == "container" && sel == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			errs = append(errs, fmt.Errorf("%s selector %q: %w", name, sel, err))
		}
	}

	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
