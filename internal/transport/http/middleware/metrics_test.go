package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_LabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{code}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})
	h := MetricsMiddleware(mux)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /{code}", "302")
	before := testutil.ToFloat64(counter)

	for _, code := range []string{"/abc123", "/zz-top", "/Q_9"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, code, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("got %v increments, want 3", got)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"matched route", "GET /{code}", "GET /{code}"},
		{"stats route", "GET /api/links/{code}/stats", "GET /api/links/{code}/stats"},
		{"no route", "", unmatchedPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/whatever", nil)
			r.Pattern = tt.pattern
			if got := routeLabel(r); got != tt.want {
				t.Errorf("routeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
