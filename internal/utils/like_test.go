package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "fin", want: "%fin%"},
		{in: "50%", want: `%50\%%`},
		{in: "a_b", want: `%a\_b%`},
		{in: `c:\x`, want: `%c:\\x%`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPattern(tt.in))
		})
	}
}
