package links

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MaxStatsDays bounds the inclusive day span of a stats query.
const MaxStatsDays = 366

var (
	ErrURLRequired      = errors.New("url required")
	ErrInvalidURL       = errors.New("invalid url")
	ErrInvalidShortCode = errors.New("invalid short code")
	ErrValidityTooLong  = errors.New("validity exceeds maximum")
	ErrCodeTaken        = errors.New("short code taken")
	ErrNotFound         = errors.New("link not found")
	ErrExpired          = errors.New("link expired")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrStatsDisabled    = errors.New("click stats not configured")

	ErrReservedShortCode = fmt.Errorf("%w: reserved", ErrInvalidShortCode)
	ErrRangeTooLong      = fmt.Errorf("%w: more than %d days", ErrInvalidRange, MaxStatsDays)
)

// LinkRepository is the durable Link Store. Create must enforce short code
// uniqueness atomically and report a duplicate as ErrCodeTaken; AppendClick
// must be additive so concurrent visits never overwrite each other.
type LinkRepository interface {
	FindByCode(ctx context.Context, code string) (*Link, error)
	Create(ctx context.Context, link *Link) error
	AppendClick(ctx context.Context, code string, click Click) error
}

type Slugger interface {
	Generate(length int) (string, error)
}

// ClickPublisher fans recorded clicks out to downstream analytics.
type ClickPublisher interface {
	PublishClick(ctx context.Context, code string, click Click) error
}

// EventLogger receives operation events destined for the remote sink.
// Implementations must not block the caller.
type EventLogger interface {
	Log(level, pkg, message string)
}

type StatsRepository interface {
	IncDaily(ctx context.Context, code string, at time.Time) error
	GetDaily(ctx context.Context, code string, from, to time.Time) ([]DailyCount, error)
}
