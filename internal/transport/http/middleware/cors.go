package middleware

import (
	"net/http"

	"github.com/IgorGrieder/shortlinks/pkg/httputils"
	"github.com/rs/cors"
)

// CORSMiddleware lets browser clients on other origins call the JSON API.
// No endpoint uses cookies, so credentials stay disabled.
func CORSMiddleware(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Content-Type",
			"Accept",
			"Origin",
			httputils.CorrelationIDHeader,
			"traceparent",
			"tracestate",
			"baggage",
		},
		ExposedHeaders: []string{httputils.CorrelationIDHeader, "Location"},
		MaxAge:         600,
	})

	return c.Handler(next)
}
