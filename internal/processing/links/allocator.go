package links

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxShortCodeLength = 32

var shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedCodes are first path segments owned by fixed routes; a link under
// one of them could never be reached.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"health":  {},
	"metrics": {},
	"shorten": {},
}

// Allocator picks the short code for a new link. The existence check is an
// early exit only: two requests for the same code can both pass it, and the
// repository's unique constraint decides which Create wins.
type Allocator struct {
	repo    LinkRepository
	slugger Slugger
	length  int
}

func NewAllocator(repo LinkRepository, slugger Slugger, length int) *Allocator {
	if length <= 0 {
		length = defaultSlugLength
	}
	return &Allocator{repo: repo, slugger: slugger, length: length}
}

// Allocate returns requested when it is non-empty, otherwise a generated
// code, provided no link already uses it. Generated codes are not retried
// on collision. On ErrCodeTaken the rejected candidate is still returned so
// the caller can report it.
func (a *Allocator) Allocate(ctx context.Context, requested string) (string, error) {
	code := strings.TrimSpace(requested)
	if code != "" {
		if err := ValidateShortCode(code); err != nil {
			return "", err
		}
	} else {
		generated, err := a.slugger.Generate(a.length)
		if err != nil {
			return "", fmt.Errorf("generate short code: %w", err)
		}
		code = generated
	}

	_, err := a.repo.FindByCode(ctx, code)
	switch {
	case err == nil:
		return code, ErrCodeTaken
	case errors.Is(err, ErrNotFound):
		return code, nil
	default:
		return "", fmt.Errorf("check short code %q: %w", code, err)
	}
}

func ValidateShortCode(code string) error {
	if len(code) > maxShortCodeLength || !shortCodePattern.MatchString(code) {
		return ErrInvalidShortCode
	}
	if _, ok := reservedCodes[code]; ok {
		return ErrReservedShortCode
	}
	return nil
}
