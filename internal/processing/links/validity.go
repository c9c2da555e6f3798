package links

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValidityCeiling is the longest validity a time.Duration can carry. It
// applies even when no maximum is configured.
const ValidityCeiling = time.Duration(math.MaxInt64/int64(time.Minute)) * time.Minute

// ParseValidity turns the submitted minutes value into a duration. Missing,
// unparsable and non-positive values fall back to def; values above max, or
// above ValidityCeiling, are rejected with ErrValidityTooLong. A
// non-positive max leaves only the ceiling.
func ParseValidity(raw string, def, max time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	minutes, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return 0, ErrValidityTooLong
	}
	if err != nil || minutes <= 0 {
		return def, nil
	}

	if minutes > int64(EffectiveMaxValidity(max)/time.Minute) {
		return 0, ErrValidityTooLong
	}
	return time.Duration(minutes) * time.Minute, nil
}

// EffectiveMaxValidity is the bound ParseValidity enforces for max.
func EffectiveMaxValidity(max time.Duration) time.Duration {
	if max <= 0 || max > ValidityCeiling {
		return ValidityCeiling
	}
	return max
}
