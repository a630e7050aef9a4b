// Package httpcontroller provides the HTTP API for the detector service.
package httpcontroller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/datastore"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/detector"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/logging"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/observability"
)

// Result cache retention. Uploads are addressed by content hash, so the
// cache survives clients re-submitting the same file.
const (
	cacheTTL     = 15 * time.Minute
	cacheCleanup = 5 * time.Minute
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Settings *conf.Settings
	DS       datastore.Interface
	Detector *detector.Detector

	metrics     *observability.Metrics
	resultCache *cache.Cache
	apiLogger   *slog.Logger
	startTime   time.Time
}

// New creates a Controller with all routes registered. The datastore may
// be nil when persistence is disabled.
func New(settings *conf.Settings, ds datastore.Interface, d *detector.Detector, metrics *observability.Metrics) *Controller {
	c := &Controller{
		Echo:        echo.New(),
		Settings:    settings,
		DS:          ds,
		Detector:    d,
		metrics:     metrics,
		resultCache: cache.New(cacheTTL, cacheCleanup),
		apiLogger:   logging.ForService("api"),
		startTime:   time.Now(),
	}

	c.Echo.HideBanner = true
	c.Echo.HidePort = true
	c.Echo.Use(middleware.Recover())
	c.Echo.Use(middleware.CORS())
	c.Echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", settings.WebServer.MaxUploadSizeMB)))
	c.Echo.Use(c.requestMetrics)

	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Echo.GET("/health", c.healthCheck)

	v1 := c.Echo.Group("/api/v1")
	v1.GET("/info", c.apiInfo)
	v1.POST("/analyze", c.analyzeUpload)
	v1.POST("/batch-analyze", c.batchAnalyze)
	v1.GET("/detections/recent", c.recentDetections)

	if c.metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.metrics.Handler()))
	}
}

// requestMetrics records per-route counters and latency.
func (c *Controller) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if c.metrics == nil {
			return next(ctx)
		}
		start := time.Now()
		err := next(ctx)
		status := ctx.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}
		c.metrics.API.RecordRequest(ctx.Path(), status, time.Since(start).Seconds())
		return err
	}
}

// SetLogger replaces the API logger, e.g. with a rotating file logger.
func (c *Controller) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.apiLogger = logger
	}
}

// Start runs the HTTP server until it fails or is shut down.
func (c *Controller) Start() error {
	addr := fmt.Sprintf("%s:%s", c.Settings.WebServer.Host, c.Settings.WebServer.Port)
	c.apiLogger.Info("starting HTTP server",
		"address", addr,
		"trained_model", c.Detector.IsTrained())
	if err := c.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}
