package round

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// WhitespacePolicy decides what happens to runs of whitespace during normalization.
type WhitespacePolicy int

const (
	// CollapseWhitespace turns every run of whitespace into a single space.
	CollapseWhitespace WhitespacePolicy = iota
	// StripWhitespace removes whitespace entirely ("new york" == "newyork").
	StripWhitespace
)

func (p WhitespacePolicy) String() string {
	switch p {
	case StripWhitespace:
		return "strip"
	default:
		return "collapse"
	}
}

// ParseWhitespacePolicy accepts "collapse" or "strip" (case-insensitive).
func ParseWhitespacePolicy(s string) (WhitespacePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collapse":
		return CollapseWhitespace, nil
	case "strip":
		return StripWhitespace, nil
	}
	return CollapseWhitespace, fmt.Errorf("unknown whitespace policy %q", s)
}

// Normalizer maps guesses and labels onto a comparable key.
// The same Normalizer must be applied to both sides of every comparison.
type Normalizer struct {
	Whitespace WhitespacePolicy
}

// Normalize folds diacritics, lowercases, drops everything that is not a
// letter, digit or whitespace (underscores included) and applies the
// whitespace policy. The result is trimmed and Normalize is idempotent.
func (n Normalizer) Normalize(s string) string {
	if folded, _, err := transform.String(foldChain(), s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)

	sep := " "
	if n.Whitespace == StripWhitespace {
		sep = ""
	}
	return strings.Join(strings.Fields(s), sep)
}

// foldChain decomposes (compatibility forms included), removes combining
// marks and recomposes, so "Côte" becomes "Cote" and fullwidth letters become ASCII.
// Transformers are stateful, hence a fresh chain per call.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
