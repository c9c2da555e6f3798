package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const ClickRecordedType = "click.recorded"

// ClickRecorded is emitted after a redirect click has been persisted.
type ClickRecorded struct {
	EventID    string `json:"eventId"`
	ShortCode  string `json:"shortCode"`
	Referrer   string `json:"referrer"`
	OccurredAt string `json:"occurredAt"`
}

// DecodeClickRecorded parses a message payload. fallback is used when the
// event carries no usable occurredAt.
func DecodeClickRecorded(payload []byte, fallback time.Time) (ClickRecorded, time.Time, error) {
	var event ClickRecorded
	if err := json.Unmarshal(payload, &event); err != nil {
		return ClickRecorded{}, time.Time{}, fmt.Errorf("decode click event: %w", err)
	}
	if strings.TrimSpace(event.ShortCode) == "" {
		return ClickRecorded{}, time.Time{}, fmt.Errorf("click event %q has no short code", event.EventID)
	}

	occurredAt := fallback.UTC()
	if raw := strings.TrimSpace(event.OccurredAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			occurredAt = parsed.UTC()
		}
	}
	return event, occurredAt, nil
}
