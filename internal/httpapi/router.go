// Package httpapi assembles the HTTP surface of the server: Connect
// services, health checks, metrics, the identity webhook and the frontend.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName = "tripsplit"
	rpcPackage  = "tripsplit.v1"
)

// Service is a mounted Connect service, as returned by the apiconnect
// New*ServiceHandler constructors.
type Service struct {
	Path    string
	Handler http.Handler
}

// Options configures NewRouter. Zero values disable the optional parts.
type Options struct {
	Version  string
	Services []Service
	DB       Pinger
	// Gatherer backs /metrics when set.
	Gatherer prometheus.Gatherer
	// Webhook enables POST /webhooks/identity.
	Webhook *WebhookHandler
	// StaticPath serves the frontend for every unmatched GET.
	StaticPath  string
	CORSOrigins []string
}

// NewRouter builds the gin engine serving the whole API.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	NewHealthHandler(serviceName, opts.Version, opts.DB).RegisterRoutes(r)

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.Webhook != nil {
		opts.Webhook.RegisterRoutes(r)
	} else {
		slog.Info("Identity webhook disabled")
	}

	for _, svc := range opts.Services {
		r.Any(svc.Path+"*procedure", gin.WrapH(svc.Handler))
		slog.Debug("Mounted Connect service", "path", svc.Path)
	}

	if opts.StaticPath != "" {
		r.NoRoute(staticHandler(opts.StaticPath))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		},
		ExposeHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// requestLogger logs every HTTP request once it completes.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			slog.Error("Request completed", attrs...)
			return
		}
		slog.Debug("Request completed", attrs...)
	}
}
