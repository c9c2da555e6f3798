package links

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestParseValidity(t *testing.T) {
	const def = 30 * time.Minute
	const max = 24 * time.Hour

	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr error
	}{
		{"absent uses default", "", def, nil},
		{"whitespace uses default", "   ", def, nil},
		{"minutes", "45", 45 * time.Minute, nil},
		{"not a number uses default", "soon", def, nil},
		{"trailing junk uses default", "10abc", def, nil},
		{"zero uses default", "0", def, nil},
		{"negative uses default", "-5", def, nil},
		{"at max", "1440", max, nil},
		{"above max", "1441", 0, ErrValidityTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValidity(tt.raw, def, max)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseValidity_NoUpperBound(t *testing.T) {
	ceilingMinutes := int64(ValidityCeiling / time.Minute)

	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr error
	}{
		{"large", "1000000", 1000000 * time.Minute, nil},
		{"at ceiling", strconv.FormatInt(ceilingMinutes, 10), ValidityCeiling, nil},
		{"past duration range", "200000000", 0, ErrValidityTooLong},
		{"past int64", "99999999999999999999", 0, ErrValidityTooLong},
		{"very negative uses default", "-99999999999999999999", 30 * time.Minute, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValidity(tt.raw, 30*time.Minute, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got < 0 {
				t.Errorf("validity wrapped to %v", got)
			}
		})
	}
}

func TestEffectiveMaxValidity(t *testing.T) {
	if got := EffectiveMaxValidity(0); got != ValidityCeiling {
		t.Errorf("unbounded: got %v, want ceiling", got)
	}
	if got := EffectiveMaxValidity(time.Hour); got != time.Hour {
		t.Errorf("configured: got %v, want 1h", got)
	}
}
