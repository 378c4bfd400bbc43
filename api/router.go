package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sheetscrape/api/handler"
	"github.com/use-agent/sheetscrape/api/middleware"
	"github.com/use-agent/sheetscrape/cache"
	"github.com/use-agent/sheetscrape/config"
	"github.com/use-agent/sheetscrape/pipeline"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work. ctx bounds
// the background eviction of the rate limiter and the dataset cache.
func NewRouter(ctx context.Context, deps *pipeline.Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		r.Use(gin.Logger())
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	cc := cache.New[*pipeline.Dataset](ctx, cfg.Cache.MaxEntries, cfg.Cache.TTL, 5*time.Minute)
	protected.POST("/export", handler.Export(deps, cfg, cc))

	return r
}
