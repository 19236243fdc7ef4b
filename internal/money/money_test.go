package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected float64
	}{
		{"exact cents untouched", 103.00, 103.00},
		{"half rounds away from zero", 2.675, 2.68},
		{"negative half rounds away from zero", -2.675, -2.68},
		{"truncates sub-cent noise", 10.004999, 10.00},
		{"rounds up", 99.996, 100.00},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round2(tt.in))
		})
	}
}
