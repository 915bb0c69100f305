package guardrails

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckInput(t *testing.T) {
	g := New("banned", " ", "Secret")

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"hello", false},
		{"this is BANNED", true},
		{"a secret plan", true},
		{"", false},
	}
	for _, tt := range tests {
		err := g.CheckInput(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrViolation, tt.input)
		} else {
			assert.NoError(t, err, tt.input)
		}
	}
}
