package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"trims whitespace", "  Goa  ", "Goa"},
		{"placeholder NA", "NA", ""},
		{"placeholder n/a", "n/a", ""},
		{"placeholder none", "None", ""},
		{"placeholder not specified", "Not specified", ""},
		{"placeholder null", "null", ""},
		{"empty", "", ""},
		{"real value passes", "Beach start", "Beach start"},
		{"mojibake apostrophe", "runnerâ€™s high", "runner’s high"},
		{"mojibake accent", "CafÃ© del Mar", "Café del Mar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Text(tt.raw))
		})
	}
}

func TestChoice(t *testing.T) {
	t.Parallel()

	options := []string{"Individual", "Relay", "Group"}
	assert.Equal(t, "Relay", Choice("relay", options))
	assert.Equal(t, "Individual", Choice(" INDIVIDUAL ", options))
	assert.Equal(t, "", Choice("team relay", options), "no fuzzy matching")
	assert.Equal(t, "", Choice("NA", options))
	assert.Equal(t, "", Choice("", options))
}

func TestTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"6:30 AM", "06:30 AM"},
		{"6.30am", "06:30 AM"},
		{"6", "06:00 AM"},     // race hours default to morning
		{"4", "04:00 PM"},     // before 5 reads as afternoon
		{"14:00", "02:00 PM"}, // 24-hour input
		{"12 pm", "12:00 PM"},
		{"12 am", "12:00 AM"},
		{"starts at 7:15 pm sharp", "07:15 PM"},
		{"NA", ""},
		{"", ""},
		{"dawn", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Time(tt.raw))
		})
	}
}

func TestCutoff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2:30", Cutoff("cutoff of 2:30 from start"))
	assert.Equal(t, "8 hours", Cutoff("8 hours overall"))
	assert.Equal(t, "90 minutes", Cutoff("after 90 minutes the course closes"))
	assert.Equal(t, "", Cutoff("until the last finisher"))
	assert.Equal(t, "", Cutoff(""))
}

func TestAge(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "18+", Age("18 years and above"))
	assert.Equal(t, "16+", Age("16+"))
	assert.Equal(t, "10+", Age("minimum age 10"))
	assert.Equal(t, "", Age(""))
	assert.Equal(t, "", Age("adults only"))
}

func TestCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"Free entry", "0"},
		{"FREE", "0"},
		{"₹1,200 per person", "1200"},
		{"INR 2500", "2500"},
		{"ask organiser", ""},
		{"NA", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Cost(tt.raw))
		})
	}
}

func TestNumeric(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "21.1", Numeric("21.1 km half marathon"))
	assert.Equal(t, "750", Numeric("750m swim"))
	assert.Equal(t, "1.9", Numeric("approx 1.9km"))
	assert.Equal(t, "", Numeric("flat course"))
	assert.Equal(t, "", Numeric(""))
}
