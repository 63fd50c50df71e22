package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"8080", 8080},
		{"1", 1},
		{"0.5", 0.5},
		{"true", true},
		{"false", false},
		{"loopback", "loopback"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.input))
		})
	}
}
