package guardrails

import (
	"errors"
	"strings"
)

var ErrViolation = errors.New("input violates guardrails")

// Guardrails performs simple input validation.
type Guardrails struct {
	banned []string
}

// New returns guardrails rejecting the given words, case-insensitively.
func New(banned ...string) *Guardrails {
	words := make([]string, 0, len(banned))
	for _, w := range banned {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &Guardrails{banned: words}
}

// CheckInput returns ErrViolation if input contains banned words.
func (g *Guardrails) CheckInput(input string) error {
	lower := strings.ToLower(input)
	for _, w := range g.banned {
		if strings.Contains(lower, w) {
			return ErrViolation
		}
	}
	return nil
}
