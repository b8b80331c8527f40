package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		ok       bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"15/03/2024", "2024-03-15", true},
		{"2024-03-15T10:30:00Z", "2024-03-15", true},
		{"2024-03-15 10:30:00", "2024-03-15", true},
		{"March 15, 2024", "2024-03-15", true},
		{"15 March 2024", "2024-03-15", true},
		{"  2024-03-15  ", "2024-03-15", true},
		{"not a date", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
