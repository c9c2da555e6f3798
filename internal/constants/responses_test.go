package constants

import (
	"net/http"
	"testing"
)

func TestWithMessage(t *testing.T) {
	got := ErrInvalidValidity.WithMessage("Validity must be at most 60 minutes")

	if got.Code != CodeInvalidValidity || got.Status != http.StatusBadRequest {
		t.Errorf("code or status changed: %+v", got)
	}
	if got.Message != "Validity must be at most 60 minutes" {
		t.Errorf("got message %q", got.Message)
	}
	if ErrInvalidValidity.Message != MsgInvalidValidity {
		t.Error("WithMessage mutated the shared value")
	}
}

func TestRedirectErrorsUsePlainMessages(t *testing.T) {
	tests := []struct {
		err        APIError
		wantStatus int
		wantMsg    string
	}{
		{ErrLinkNotFound, http.StatusNotFound, "Shortcode not found"},
		{ErrLinkExpired, http.StatusGone, "Link has expired"},
		{ErrInternalError, http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus || tt.err.Message != tt.wantMsg {
				t.Errorf("got %d %q, want %d %q", tt.err.Status, tt.err.Message, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}
