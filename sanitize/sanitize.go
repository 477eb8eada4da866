// Package sanitize turns raw script text into a family-friendly variant.
package sanitize

import (
	"strings"

	"brainrot/types"
)

// Sanitizer applies a Filter to every token of a text.
type Sanitizer struct {
	filter Filter
}

// New returns a Sanitizer using filter.
func New(filter Filter) *Sanitizer {
	return &Sanitizer{filter: filter}
}

// Sanitize splits text on whitespace, filters each token and rejoins them
// with single spaces. Token count and boundaries are preserved.
func (s *Sanitizer) Sanitize(text string) types.Script {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = s.filter.Replace(w)
	}
	return types.Script(strings.Join(words, " "))
}
