package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanNameMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /api/links/{code}/stats", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("GET /{code}", func(http.ResponseWriter, *http.Request) {})

	h := SpanNameMiddleware(map[string]string{
		"GET /{code}": "links.redirect",
		"GET /health": "health",
	})(mux)

	tests := []struct {
		target    string
		wantName  string
		wantRoute string
	}{
		{"/abc123", "links.redirect", "GET /{code}"},
		{"/zz9", "links.redirect", "GET /{code}"},
		{"/health", "health", "GET /health"},
		{"/api/links/abc/stats", "GET /api/links/{code}/stats", "GET /api/links/{code}/stats"},
		{"/a/b/c", "GET", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			ctx, span := tp.Tracer("test").Start(req.Context(), "GET")
			h.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))
			span.End()

			ended := recorder.Ended()
			if len(ended) != 1 {
				t.Fatalf("got %d spans, want 1", len(ended))
			}
			if got := ended[0].Name(); got != tt.wantName {
				t.Errorf("got span name %q, want %q", got, tt.wantName)
			}

			var route string
			for _, kv := range ended[0].Attributes() {
				if kv.Key == attribute.Key("http.route") {
					route = kv.Value.AsString()
				}
			}
			if route != tt.wantRoute {
				t.Errorf("got http.route %q, want %q", route, tt.wantRoute)
			}
		})
	}
}
