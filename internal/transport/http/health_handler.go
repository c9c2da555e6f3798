package http

import (
	"net/http"
	"time"

	"github.com/IgorGrieder/shortlinks/pkg/httputils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Time   string `json:"time" example:"2024-01-15T10:30:00Z"`
}

// HealthHandler serves liveness and Prometheus endpoints.
type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health reports that the process is serving. It does not ping Mongo.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httputils.RespondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Metrics() http.Handler {
	return promhttp.Handler()
}
