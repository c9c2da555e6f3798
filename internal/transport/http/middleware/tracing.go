package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SpanNameMiddleware renames the active server span after the mux has
// matched a route. otelhttp names the span before routing, when r.Pattern
// is still empty. names maps a mux pattern to a span name; patterns not in
// the map keep the pattern itself. Unmatched requests are left as they are.
func SpanNameMiddleware(names map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			span := trace.SpanFromContext(r.Context())
			if r.Pattern == "" || !span.IsRecording() {
				return
			}
			name, ok := names[r.Pattern]
			if !ok {
				name = r.Pattern
			}
			span.SetName(name)
			span.SetAttributes(attribute.String("http.route", r.Pattern))
		})
	}
}
