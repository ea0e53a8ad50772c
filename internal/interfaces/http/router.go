// Package http wires the gin router and HTTP server for the exposed surface.
package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldlink/locate-sla/internal/application/tracking"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/logging"
	"github.com/fieldlink/locate-sla/internal/infrastructure/monitoring/prometheus"
	"github.com/fieldlink/locate-sla/internal/interfaces/http/handlers"
	"github.com/fieldlink/locate-sla/internal/interfaces/http/middleware"
)

// RouterOptions carries the dependencies for NewRouter.
type RouterOptions struct {
	Service     *tracking.Service
	Coordinator *tracking.Coordinator
	Logger      logging.Logger
	Metrics     *prometheus.AppMetrics

	// MetricsHandler serves /metrics; nil disables the route.
	MetricsHandler nethttp.Handler

	// Mode is the gin mode: debug, release, or test.
	Mode string
}

// NewRouter builds the full route table.
func NewRouter(opts RouterOptions) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.Metrics == nil {
		opts.Metrics = prometheus.NewNopMetrics()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(opts.Logger),
		middleware.RequestLogging(opts.Logger, middleware.DefaultLoggingConfig()),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(),
	)

	health := handlers.NewHealthHandler(opts.Service)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	locates := handlers.NewLocatesHandler(opts.Service, opts.Coordinator)
	api := r.Group("/api/v1/locates")
	{
		api.GET("/buckets", locates.GetBuckets)
		api.POST("/refresh", locates.Refresh)

		api.POST("/work-orders/:id/call", locates.Call)

		api.GET("/selection/:bucket", locates.GetSelection)
		api.POST("/selection/:bucket", locates.ReplaceSelection)
		api.DELETE("/selection/:bucket", locates.ClearSelection)
		api.POST("/selection/:bucket/toggle", locates.ToggleSelection)

		api.POST("/bulk-delete", locates.BulkDelete)
		api.POST("/tag", locates.Tag)
		api.POST("/bulk-tag", locates.BulkTag)
		api.GET("/tag-defaults", locates.TagDefaults)
	}

	return r
}
