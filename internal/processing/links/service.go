package links

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/IgorGrieder/shortlinks/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Event levels and packages reported to the EventLogger.
const (
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
	levelFatal = "fatal"

	pkgHandler = "handler"
	pkgRoute   = "route"
)

type ServiceOptions struct {
	SlugLength      int
	DefaultValidity time.Duration
	MaxValidity     time.Duration
	Publisher       ClickPublisher
	Events          EventLogger
}

type Service struct {
	linkRepo        LinkRepository
	statsRepo       StatsRepository
	allocator       *Allocator
	publisher       ClickPublisher
	events          EventLogger
	defaultValidity time.Duration
	maxValidity     time.Duration
	now             func() time.Time
}

// NewService wires the core. statsRepo, opts.Publisher and opts.Events may
// be nil.
func NewService(linkRepo LinkRepository, statsRepo StatsRepository, slugger Slugger, opts ServiceOptions) *Service {
	if opts.DefaultValidity <= 0 {
		opts.DefaultValidity = 30 * time.Minute
	}
	if opts.Events == nil {
		opts.Events = nopEvents{}
	}

	return &Service{
		linkRepo:        linkRepo,
		statsRepo:       statsRepo,
		allocator:       NewAllocator(linkRepo, slugger, opts.SlugLength),
		publisher:       opts.Publisher,
		events:          opts.Events,
		defaultValidity: opts.DefaultValidity,
		maxValidity:     opts.MaxValidity,
		now:             time.Now,
	}
}

func (s *Service) Shorten(ctx context.Context, in ShortenInput) (*Link, error) {
	rawURL := strings.TrimSpace(in.URL)
	if rawURL == "" {
		s.events.Log(levelWarn, pkgHandler, "Missing URL in request")
		return nil, ErrURLRequired
	}

	longURL, err := validateURL(rawURL)
	if err != nil {
		s.events.Log(levelWarn, pkgHandler, "Invalid URL in request")
		return nil, ErrInvalidURL
	}

	validity, err := ParseValidity(in.Validity, s.defaultValidity, s.maxValidity)
	if err != nil {
		s.events.Log(levelWarn, pkgHandler, fmt.Sprintf("Validity %q exceeds maximum", in.Validity))
		return nil, err
	}

	code, err := s.allocator.Allocate(ctx, in.ShortCode)
	if err != nil {
		return nil, s.shortenFailed(code, err)
	}

	now := s.now().UTC()
	link := &Link{
		ShortCode: code,
		LongURL:   longURL,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, s.shortenFailed(code, err)
	}

	s.events.Log(levelInfo, pkgHandler, "Created short URL: "+code)
	return link, nil
}

func (s *Service) shortenFailed(code string, err error) error {
	switch {
	case errors.Is(err, ErrCodeTaken):
		s.events.Log(levelWarn, pkgHandler, fmt.Sprintf("Shortcode %s already in use", code))
		return ErrCodeTaken
	case errors.Is(err, ErrInvalidShortCode):
		s.events.Log(levelWarn, pkgHandler, "Invalid shortcode in request")
		return err
	default:
		s.events.Log(levelError, pkgHandler, "Error shortening: "+err.Error())
		return err
	}
}

func (s *Service) GetLink(ctx context.Context, code string) (*Link, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrNotFound
	}

	link, err := s.linkRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return link, nil
}

// Resolve runs one visit: lookup, expiry check, click append, in that order.
// Expired links are not clicked. The returned link includes the new click.
func (s *Service) Resolve(ctx context.Context, in VisitInput) (*Link, error) {
	code := strings.TrimSpace(in.ShortCode)

	link, err := s.GetLink(ctx, code)
	if err != nil {
		return nil, s.resolveFailed(code, err)
	}

	now := s.now().UTC()
	if link.Expired(now) {
		s.events.Log(levelWarn, pkgRoute, "Shortcode expired")
		return nil, ErrExpired
	}

	click := Click{
		Timestamp: now,
		Referrer:  referrerOrDirect(in.Referrer),
	}
	if err := s.linkRepo.AppendClick(ctx, code, click); err != nil {
		return nil, s.resolveFailed(code, err)
	}
	link.Clicks = append(link.Clicks, click)

	if s.publisher != nil {
		if err := s.publisher.PublishClick(ctx, code, click); err != nil {
			logger.Warn("failed to publish click", zap.Error(err), zap.String("short_code", code))
		}
	}

	s.events.Log(levelInfo, pkgRoute, "Redirecting to "+link.LongURL)
	return link, nil
}

func (s *Service) resolveFailed(code string, err error) error {
	if errors.Is(err, ErrNotFound) {
		s.events.Log(levelWarn, pkgRoute, "Shortcode not found")
		return ErrNotFound
	}
	s.events.Log(levelFatal, pkgRoute, err.Error())
	return fmt.Errorf("resolve %q: %w", code, err)
}

func (s *Service) GetStats(ctx context.Context, code string, from, to time.Time) ([]DailyCount, error) {
	if s.statsRepo == nil {
		return nil, ErrStatsDisabled
	}

	from = dateOnly(from.UTC())
	to = dateOnly(to.UTC())
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if to.Sub(from) >= MaxStatsDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}

	if _, err := s.GetLink(ctx, code); err != nil {
		return nil, err
	}

	counts, err := s.statsRepo.GetDaily(ctx, code, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Count
	}

	out := make([]DailyCount, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		ds := day.Format(time.DateOnly)
		out = append(out, DailyCount{
			Date:  ds,
			Count: byDate[ds],
		})
	}

	return out, nil
}

// OutcomeOf classifies the error returned by Resolve.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeRedirect
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrExpired):
		return OutcomeExpired
	default:
		return OutcomeError
	}
}

func referrerOrDirect(referrer string) string {
	if r := strings.TrimSpace(referrer); r != "" {
		return r
	}
	return DirectReferrer
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if strings.TrimSpace(u.Host) == "" {
		return "", ErrInvalidURL
	}

	return raw, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type nopEvents struct{}

func (nopEvents) Log(string, string, string) {}
