// Package httpapi exposes the designer session over HTTP for server mode.
//
// The routes mirror the MCP tools. The document route is the URL a display
// collaborator such as a browser PDF viewer points at.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/session"
)

// DefaultMaxBodySize caps uploaded base documents
const DefaultMaxBodySize = 100 * 1024 * 1024

// Options configure the router. Session is required.
type Options struct {
	Session *session.Session
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// MCP, when set, is mounted at /sse and /message
	MCP         http.Handler
	MaxBodySize int64
	Release     bool
}

// NewRouter builds the gin engine for opts
func NewRouter(opts Options) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(opts.Logger))
	r.Use(MetricsMiddleware(opts.Metrics))

	h := &handler{session: opts.Session, logger: opts.Logger, maxBody: opts.MaxBodySize}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	if opts.MCP != nil {
		r.Any("/sse", gin.WrapH(opts.MCP))
		r.Any("/message", gin.WrapH(opts.MCP))
	}

	api := r.Group("/api")
	{
		api.GET("/state", h.state)

		api.GET("/fields", h.listFields)
		api.POST("/fields", h.addField)
		api.POST("/fields/move", h.moveField)
		api.PATCH("/fields/:id", h.updateField)
		api.DELETE("/fields/:id", h.deleteField)
		api.POST("/reset", h.reset)

		api.GET("/config", h.textConfig)
		api.PUT("/config", h.setTextConfig)
		api.PUT("/layout-mode", h.setLayoutMode)
		api.POST("/zoom", h.zoom)

		api.POST("/drag/start/:id", h.dragStart)
		api.POST("/drag/drop", h.drop)
		api.POST("/drag/end", h.dragEnd)

		api.POST("/base", h.loadBase)
		api.DELETE("/base", h.clearBase)
		api.GET("/document.pdf", h.document)
		api.GET("/overlay.svg", h.overlay)
	}

	return r
}
