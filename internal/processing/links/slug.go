package links

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	base62Alphabet    = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	defaultSlugLength = 6
)

// NanoidSlugger draws short codes from the base62 alphabet using nanoid's
// unbiased crypto/rand sampling.
type NanoidSlugger struct {
	alphabet string
}

func NewNanoidSlugger() *NanoidSlugger { return &NanoidSlugger{alphabet: base62Alphabet} }

func (s *NanoidSlugger) Generate(length int) (string, error) {
	if length <= 0 {
		length = defaultSlugLength
	}
	return gonanoid.Generate(s.alphabet, length)
}
