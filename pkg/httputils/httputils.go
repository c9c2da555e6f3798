package httputils

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/constants"
	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CorrelationIDHeader = "X-Correlation-Id"

// APIResponse is the envelope of every JSON API response. Code is set on
// success, Error and Message on failure.
type APIResponse struct {
	ResponseTime  time.Time `json:"responseTime" example:"2024-01-15T10:30:00Z"`
	CorrelationId string    `json:"correlationId" example:"550e8400-e29b-41d4-a716-446655440000"`
	Code          string    `json:"code,omitempty" example:"LINK_CREATED"`
	Data          any       `json:"data,omitempty"`
	Error         string    `json:"error,omitempty" example:"SHORTCODE_TAKEN"`
	Message       string    `json:"message,omitempty" example:"Shortcode already exists"`
}

type SuccessResponse struct {
	Data any `json:"data"`
}

// GetCorrelationID echoes the caller's correlation ID or mints a UUID v4.
func GetCorrelationID(r *http.Request) string {
	if id := r.Header.Get(CorrelationIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}

func WriteAPIError(w http.ResponseWriter, r *http.Request, apiErr constants.APIError) {
	writeEnvelope(w, r, apiErr.Status, APIResponse{
		Error:   apiErr.Code,
		Message: apiErr.Message,
	})
}

func WriteAPISuccess(w http.ResponseWriter, r *http.Request, apiSuccess constants.APISuccess, data any) {
	writeEnvelope(w, r, apiSuccess.Status, APIResponse{
		Code: apiSuccess.Code,
		Data: data,
	})
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, resp APIResponse) {
	resp.CorrelationId = GetCorrelationID(r)
	resp.ResponseTime = time.Now().UTC()

	w.Header().Set(CorrelationIDHeader, resp.CorrelationId)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode api response", zap.Error(err), zap.String("correlation_id", resp.CorrelationId))
	}
}

// WriteText writes apiErr's message as a plain-text body. The redirect
// endpoint answers this way since its callers are browsers, not API clients.
func WriteText(w http.ResponseWriter, r *http.Request, apiErr constants.APIError) {
	w.Header().Set(CorrelationIDHeader, GetCorrelationID(r))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(apiErr.Status)
	_, _ = io.WriteString(w, apiErr.Message)
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(SuccessResponse{Data: data}); err != nil {
		logger.Error("failed to encode json response", zap.Error(err))
	}
}
