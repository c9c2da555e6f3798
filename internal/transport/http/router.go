package http

import (
	"net/http"

	"github.com/IgorGrieder/shortlinks/internal/config"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/shortlinks/internal/processing/links"
	"github.com/IgorGrieder/shortlinks/internal/transport/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var spanNames = map[string]string{
	"GET /{$}":                    "links.index",
	"POST /shorten":               "links.shorten",
	"GET /health":                 "health",
	"GET /metrics":                "metrics",
	"POST /api/links":             "links.create",
	"GET /api/links/{code}/stats": "links.stats",
	"GET /{code}":                 "links.redirect",
}

type RouterOptions struct {
	EnableCORS    bool
	EnableLogging bool
	EnableMetrics bool
}

func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		EnableCORS:    true,
		EnableLogging: true,
		EnableMetrics: true,
	}
}

func NewRouter(cfg *config.Config, linkService *links.Service) http.Handler {
	return NewRouterWithOptions(cfg, linkService, DefaultRouterOptions())
}

func NewRouterWithOptions(cfg *config.Config, linkService *links.Service, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	healthHandler := NewHealthHandler()
	linksHandler := NewLinksHandler(cfg, linkService)

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", healthHandler.Metrics())

	mux.HandleFunc("GET /{$}", linksHandler.Index)
	mux.HandleFunc("POST /shorten", linksHandler.ShortenForm)

	mux.HandleFunc("POST /api/links", linksHandler.CreateAPI)
	mux.HandleFunc("GET /api/links/{code}/stats", linksHandler.Stats)

	mux.HandleFunc("GET /{code}", linksHandler.Redirect)

	var mws []func(http.Handler) http.Handler
	if opts.EnableMetrics {
		mws = append(mws, middleware.MetricsMiddleware)
	}
	if opts.EnableLogging {
		mws = append(mws, middleware.LoggingMiddleware)
	}
	if opts.EnableCORS {
		mws = append(mws, middleware.CORSMiddleware)
	}
	mws = append(mws, middleware.SpanNameMiddleware(spanNames))
	handler := middleware.Chain(mux, mws...)

	otelOptions := []otelhttp.Option{
		// Renamed to the route once matched; see SpanNameMiddleware.
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	}

	if telemetry.TracerProvider != nil {
		otelOptions = append(otelOptions, otelhttp.WithTracerProvider(telemetry.TracerProvider))
	}

	return otelhttp.NewHandler(handler, cfg.App.Name, otelOptions...)
}
