package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHumanDuration(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{name: "weeks", input: "2 weeks", expected: 14 * 24 * time.Hour},
		{name: "single week", input: "1 week", expected: 7 * 24 * time.Hour},
		{name: "days", input: "30 days", expected: 30 * 24 * time.Hour},
		{name: "short unit", input: "12 h", expected: 12 * time.Hour},
		{name: "milliseconds", input: "250 ms", expected: 250 * time.Millisecond},
		{name: "mixed units", input: "1 week 2 days 3 hours", expected: 9*24*time.Hour + 3*time.Hour},
		{name: "case insensitive", input: "2 Weeks", expected: 14 * 24 * time.Hour},
		{name: "empty string", input: "", expectError: true},
		{name: "value without unit", input: "2", expectError: true},
		{name: "unit without value", input: "weeks", expectError: true},
		{name: "non-numeric value", input: "two weeks", expectError: true},
		{name: "unknown unit", input: "2 fortnights", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseHumanDuration(tc.input)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
