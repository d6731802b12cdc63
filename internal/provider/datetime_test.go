package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTimeAcceptedShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"rfc3339 with offset", "2026-08-29T18:30:00+02:00"},
		{"rfc3339 utc", "2026-08-29T18:30:00Z"},
		{"offset without colon", "2026-08-29T18:30:00+0200"},
		{"bare with T", "2026-08-29T18:30:00"},
		{"bare with space", "2026-08-29 18:30:00"},
		{"date only", "2026-08-29"},
		{"surrounding whitespace", "  2026-08-29T18:30:00Z  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDateTime(tt.input)
			require.NotNil(t, got)
			utc := got.UTC()
			assert.Equal(t, 2026, utc.Year())
			assert.Equal(t, 29, utc.Day())
		})
	}
}

func TestParseDateTimeMalformedReturnsNil(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"not a date",
		"29/08/2026",
		"2026-13-45T99:99:99Z",
		"TBD",
	} {
		assert.Nil(t, ParseDateTime(input), "input %q", input)
	}
}
