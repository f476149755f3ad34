package command_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"i4.energy/across/tofterm/command"
)

func TestParseDistance(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"  7", 7},
		{"15cm", 15},
		{"1e1", 10},
		{"-3", -3},
		{".5", 0.5},
		{"12.5.3", 12.5},
		{"", 0},
		{"abc", 0},
		{"-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, command.ParseDistance(tt.in))
		})
	}

	t.Run("overflow", func(t *testing.T) {
		assert.True(t, math.IsInf(command.ParseDistance("1e999"), 1))
	})
}
