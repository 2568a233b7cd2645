package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForType(t *testing.T) {
	t.Parallel()

	t.Run("known types resolve", func(t *testing.T) {
		t.Parallel()
		for _, typ := range []string{
			"triathlon", "running", "trail running", "swimming", "duathlon",
			"aquathlon", "aquabike", "cycling", "fitness racing",
		} {
			s, ok := ForType(typ)
			assert.True(t, ok, typ)
			assert.NotEmpty(t, s, typ)
		}
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		t.Parallel()
		s, ok := ForType("  Trail Running ")
		require.True(t, ok)
		assert.Equal(t, Running, s)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, ok := ForType("orienteering")
		assert.False(t, ok)
	})
}

func TestSchemaComposition(t *testing.T) {
	t.Parallel()

	contains := func(s []string, name string) bool {
		for _, f := range s {
			if f == name {
				return true
			}
		}
		return false
	}

	// Triathlon carries all three disciplines; running carries only its own.
	assert.True(t, contains(Triathlon, "swimCutoff"))
	assert.True(t, contains(Triathlon, "cycleCutoff"))
	assert.True(t, contains(Triathlon, "runCutoff"))
	assert.True(t, contains(Running, "runningDistance"))
	assert.False(t, contains(Running, "swimDistance"))
	assert.False(t, contains(Cycling, "runningDistance"))
	assert.True(t, contains(Aquabike, "swimDistance"))
	assert.True(t, contains(Aquabike, "cyclingDistance"))

	// Shared vocabulary appears everywhere.
	for _, s := range [][]string{Triathlon, Running, Swimming, Duathlon, Aquathlon, Aquabike, Cycling, FitnessRacing} {
		assert.Equal(t, "event", s[0])
		assert.True(t, contains(s, "date"))
		assert.True(t, contains(s, "month"))
		assert.True(t, contains(s, "approvalStatus"))
	}

	// No duplicate columns within a schema.
	seen := map[string]bool{}
	for _, f := range Triathlon {
		assert.False(t, seen[f], "duplicate column %s", f)
		seen[f] = true
	}
}

func TestDefaultBlankIsSchemaSubset(t *testing.T) {
	t.Parallel()

	all := map[string]bool{}
	for _, f := range Flyer {
		all[f] = true
	}
	for name := range DefaultBlank {
		assert.True(t, all[name], "DefaultBlank field %s not in schema", name)
	}
	// Derived columns must never be forced blank.
	for _, derived := range []string{"month", "editionYear", "lastEdition", "countEditions"} {
		assert.False(t, DefaultBlank[derived], derived)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field string
		want  Kind
	}{
		{"startTime", KindTime},
		{"date", KindDate},
		{"lastDate", KindDate},
		{"ageLimitation", KindAge},
		{"registrationCost", KindCost},
		{"swimCutoff", KindCutoff},
		{"cycleCutoff", KindCutoff},
		{"runCutoff", KindCutoff},
		{"swimDistance", KindNumeric},
		{"runningElevationgain", KindNumeric},
		{"runningElevationloss", KindNumeric},
		{"firstEdition", KindNumeric},
		{"countEditions", KindNumeric},
		{"editionYear", KindNumeric},
		{"waterTemperature", KindNumeric},
		{"city", KindText},
		{"organiser", KindText},
		{"mode", KindText}, // choice validation is flyer-only
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.field))
		})
	}
}

func TestFlyerKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindChoice, FlyerKindOf("mode"))
	assert.Equal(t, KindChoice, FlyerKindOf("triathlonType"))
	assert.Equal(t, KindTime, FlyerKindOf("startTime"))
	assert.Equal(t, KindNumeric, FlyerKindOf("swimDistance"))
	assert.Equal(t, KindText, FlyerKindOf("city"))
}
