package constants

// Human-readable messages. The shorten form shows them in its error slot and
// the redirect endpoint returns them as plain-text bodies.
const (
	// Common messages
	MsgInvalidRequestBody = "Invalid request body"
	MsgServerError        = "Server error"
	MsgStatsDisabled      = "Click statistics are not enabled"
	MsgStatsRangeTooLong  = "Date range must not exceed %d days"

	// Shortener-specific messages
	MsgURLRequired       = "URL required"
	MsgInvalidURL        = "Invalid URL (must be http or https)"
	MsgInvalidShortCode  = "Shortcode may only contain letters, digits, '-' and '_' (max 32)"
	MsgInvalidValidity   = "Validity must be a positive number of minutes"
	MsgValidityTooLong   = "Validity must be at most %d minutes"
	MsgShortCodeReserved = "Shortcode is reserved"
	MsgShortCodeTaken    = "Shortcode already exists"
	MsgShortcodeNotFound = "Shortcode not found"
	MsgLinkExpired       = "Link has expired"
)
