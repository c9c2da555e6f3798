package constants

// Error codes used in API responses.
// These are the machine-readable codes returned in the "error" field.
const (
	// Common error codes
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeNotImplemented = "NOT_IMPLEMENTED"

	// Shortener-specific codes
	CodeURLRequired      = "URL_REQUIRED"
	CodeInvalidURL       = "INVALID_URL"
	CodeInvalidShortCode = "INVALID_SHORTCODE"
	CodeInvalidValidity  = "INVALID_VALIDITY"
	CodeShortCodeTaken   = "SHORTCODE_TAKEN"
	CodeLinkExpired      = "LINK_EXPIRED"
	CodeLinkNotFound     = "LINK_NOT_FOUND"

	// Success codes
	CodeLinkCreated = "LINK_CREATED"
	CodeStatsFound  = "STATS_FOUND"
)
