package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFuzzyDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"12 Jan 2026", date(2026, 1, 12)},
		{"12 January 2026", date(2026, 1, 12)},
		{"12th January 2026", date(2026, 1, 12)},
		{"January 12, 2026", date(2026, 1, 12)},
		{"12/01/2026", date(2026, 1, 12)}, // day before month
		{"05/03/2026", date(2026, 3, 5)},
		{"12-01-2026", date(2026, 1, 12)},
		{"2026-01-12", date(2026, 1, 12)},
		{"Sunday, 12 Jan 2026", date(2026, 1, 12)},
		{"the race is on 15 February 2026 at dawn", date(2026, 2, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseFuzzyDate(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, raw := range []string{"", "NA", "sometime next year", "32/13/2026"} {
		t.Run("unparsable "+raw, func(t *testing.T) {
			t.Parallel()
			_, ok := ParseFuzzyDate(raw)
			assert.False(t, ok)
		})
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		cutoff int
		want   string
	}{
		{"canonical format", "12 Jan 2026", 2025, "12/01/2026"},
		{"numeric day first", "05/03/2026", 2025, "05/03/2026"},
		{"past year rejected", "10 June 2019", 2025, ""},
		{"cutoff year itself accepted", "1 March 2025", 2025, "01/03/2025"},
		{"unparsable", "see website", 2025, ""},
		{"placeholder", "N/A", 2025, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Date(tt.raw, tt.cutoff))
		})
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
