package constants

import "net/http"

// APIError is a user-facing failure: a machine-readable code, the message
// shown to the user, and the HTTP status used by the JSON API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// WithMessage returns a copy of e carrying message.
func (e APIError) WithMessage(message string) APIError {
	e.Message = message
	return e
}

// Common errors - shared across multiple modules
var (
	ErrInvalidRequestBody = APIError{
		Code:    CodeInvalidRequest,
		Message: MsgInvalidRequestBody,
		Status:  http.StatusBadRequest,
	}
	ErrInternalError = APIError{
		Code:    CodeInternalError,
		Message: MsgServerError,
		Status:  http.StatusInternalServerError,
	}
	ErrStatsDisabled = APIError{
		Code:    CodeNotImplemented,
		Message: MsgStatsDisabled,
		Status:  http.StatusNotImplemented,
	}
)

// Shortener-specific errors
var (
	ErrURLRequired = APIError{
		Code:    CodeURLRequired,
		Message: MsgURLRequired,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidURL = APIError{
		Code:    CodeInvalidURL,
		Message: MsgInvalidURL,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidShortCode = APIError{
		Code:    CodeInvalidShortCode,
		Message: MsgInvalidShortCode,
		Status:  http.StatusBadRequest,
	}
	ErrInvalidValidity = APIError{
		Code:    CodeInvalidValidity,
		Message: MsgInvalidValidity,
		Status:  http.StatusBadRequest,
	}
	ErrShortCodeTaken = APIError{
		Code:    CodeShortCodeTaken,
		Message: MsgShortCodeTaken,
		Status:  http.StatusConflict,
	}
	ErrLinkNotFound = APIError{
		Code:    CodeLinkNotFound,
		Message: MsgShortcodeNotFound,
		Status:  http.StatusNotFound,
	}
	ErrLinkExpired = APIError{
		Code:    CodeLinkExpired,
		Message: MsgLinkExpired,
		Status:  http.StatusGone,
	}
)

// APISuccess is the code and status of a successful JSON API response.
type APISuccess struct {
	Code   string
	Status int
}

var (
	SuccessLinkCreated = APISuccess{Code: CodeLinkCreated, Status: http.StatusCreated}
	SuccessStatsFound  = APISuccess{Code: CodeStatsFound, Status: http.StatusOK}
)
