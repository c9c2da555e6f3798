package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var trail []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		trail = append(trail, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(trail, ","); got != "outer,inner,handler" {
		t.Errorf("got order %q", got)
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		_, _ = rec.Write([]byte("ok"))
		rec.WriteHeader(http.StatusTeapot)
		if rec.statusCode != http.StatusOK {
			t.Errorf("got %d, want 200", rec.statusCode)
		}
	})

	t.Run("explicit status", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		rec.WriteHeader(http.StatusGone)
		if rec.statusCode != http.StatusGone {
			t.Errorf("got %d, want 410", rec.statusCode)
		}
	})
}
