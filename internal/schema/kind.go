package schema

import "strings"

// Kind selects which normalizer applies to a field's raw value.
type Kind int

const (
	KindText Kind = iota
	KindChoice
	KindDate
	KindTime
	KindCutoff
	KindAge
	KindCost
	KindNumeric
)

// exactKinds maps field names with a dedicated rule.
var exactKinds = map[string]Kind{
	"startTime":        KindTime,
	"date":             KindDate,
	"lastDate":         KindDate,
	"ageLimitation":    KindAge,
	"registrationCost": KindCost,
}

// numericMarkers tag fields whose value is the first decimal number in
// the raw text (distances, elevation gain/loss, editions, temperatures).
var numericMarkers = []string{"Distance", "gain", "loss", "Edition", "editionYear", "Temperature"}

// kinds is the field-name to kind table, built once over the union of all
// schema columns rather than re-derived per lookup.
var kinds = buildKinds()

func buildKinds() map[string]Kind {
	out := make(map[string]Kind, len(Flyer))
	for _, name := range Flyer {
		out[name] = classify(name)
	}
	return out
}

func classify(name string) Kind {
	if k, ok := exactKinds[name]; ok {
		return k
	}
	if strings.Contains(name, "Cutoff") {
		return KindCutoff
	}
	for _, marker := range numericMarkers {
		if strings.Contains(name, marker) {
			return KindNumeric
		}
	}
	return KindText
}

// KindOf returns the normalizer kind for a schema field. Unknown names
// fall back to the pattern rules so ad hoc fields still normalize sanely.
func KindOf(name string) Kind {
	if k, ok := kinds[name]; ok {
		return k
	}
	return classify(name)
}

// FlyerKindOf is KindOf with choice-field validation layered on top. The
// flyer pipeline validates enumerated fields against Choices; the research
// resolution pipeline leaves them as free text.
func FlyerKindOf(name string) Kind {
	if _, ok := Choices[name]; ok {
		return KindChoice
	}
	return KindOf(name)
}
