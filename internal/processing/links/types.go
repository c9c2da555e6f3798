package links

import "time"

// DirectReferrer is recorded when a visit carries no Referer header.
const DirectReferrer = "direct"

// Link maps a short code to its destination. Only Clicks changes after
// creation, and only by appending.
type Link struct {
	ShortCode string
	LongURL   string
	CreatedAt time.Time
	ExpiresAt time.Time
	Clicks    []Click
}

// Expired reports whether the link no longer resolves at instant now.
func (l *Link) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

type Click struct {
	Timestamp time.Time
	Referrer  string
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ShortenInput struct {
	URL       string
	ShortCode string
	// Validity is the raw minutes value as submitted; see ParseValidity.
	Validity string
}

type VisitInput struct {
	ShortCode string
	Referrer  string
}

// Outcome classifies a visit for metrics and event messages.
type Outcome string

const (
	OutcomeRedirect Outcome = "redirect"
	OutcomeNotFound Outcome = "not_found"
	OutcomeExpired  Outcome = "expired"
	OutcomeError    Outcome = "error"
)
