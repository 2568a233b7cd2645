// Package resolve turns one variant's confidence-scored field guesses
// into a final schema-conformant output row.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raceatlas/scout-cli/internal/model"
	"github.com/raceatlas/scout-cli/internal/normalize"
	"github.com/raceatlas/scout-cli/internal/schema"
)

// Config carries the resolution thresholds and the past-event cutoff.
// CutoffYear is an explicit policy constant, not derived from the clock:
// deriving it would silently change which rows survive across year ends.
type Config struct {
	Threshold         float64 // nominal acceptance bar
	InferredThreshold float64 // lower bar for inferred fields
	FallbackThreshold float64 // second-pass bar when nothing cleared the first
	CutoffYear        int     // events dated before this year are dropped
}

// DefaultConfig mirrors the production tuning.
func DefaultConfig() Config {
	return Config{
		Threshold:         0.65,
		InferredThreshold: 0.45,
		FallbackThreshold: 0.1,
		CutoffYear:        2025,
	}
}

// Resolver applies the two-pass threshold resolution to variants.
type Resolver struct {
	cfg Config
}

// New creates a Resolver.
func New(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve builds the final row for one variant. The second return value
// is false only when the variant's date parses to a year before the
// cutoff; every other failure mode degrades to empty field values.
func (r *Resolver) Resolve(festival, variant string, fields model.Variant, columns []string) (map[string]string, bool) {
	row := r.buildRow(fields, columns, r.cfg.Threshold)

	// Nothing cleared the nominal bar: retry once with the fallback
	// threshold so the run yields best-effort data instead of silence.
	if rowEmpty(row) {
		zap.L().Info("resolve: no high-confidence data, retrying at fallback threshold",
			zap.String("festival", festival),
			zap.String("variant", variant),
		)
		row = r.buildRow(fields, columns, r.cfg.FallbackThreshold)
	}

	if date, ok := normalize.ParseFuzzyDate(row["date"]); ok {
		if date.Year() < r.cfg.CutoffYear {
			zap.L().Warn("resolve: filtering out past event",
				zap.String("festival", festival),
				zap.String("variant", variant),
				zap.Int("year", date.Year()),
			)
			return nil, false
		}
		year := strconv.Itoa(date.Year())
		row["month"] = date.Month().String()
		row["editionYear"] = year
		row["lastEdition"] = year
		row["countEditions"] = countEditions(year, row["firstEdition"])
	}

	row["event"] = eventName(festival, variant)

	// Absence of evidence is the common case for these, not unknown.
	if row["restrictedTraffic"] == "" {
		row["restrictedTraffic"] = "Yes"
	}
	if row["aidStations"] == "" {
		row["aidStations"] = "Yes"
	}
	if row["approvalStatus"] == "" {
		row["approvalStatus"] = "Approved"
	}

	// Runs last so nothing upstream can leak into curation-only columns.
	for name := range schema.DefaultBlank {
		if _, ok := row[name]; ok {
			row[name] = ""
		}
	}

	return row, true
}

// buildRow resolves every schema column at the given threshold and
// normalizes accepted values by field kind.
func (r *Resolver) buildRow(fields model.Variant, columns []string, threshold float64) map[string]string {
	row := make(map[string]string, len(columns))
	for _, name := range columns {
		if schema.DefaultBlank[name] {
			row[name] = ""
			continue
		}
		raw := ""
		if f, ok := fields[name]; ok && f.Accept(threshold, r.cfg.InferredThreshold) {
			raw = f.Value
		}
		row[name] = normalizeByKind(name, raw)
	}
	return row
}

func normalizeByKind(name, raw string) string {
	switch schema.KindOf(name) {
	case schema.KindDate:
		// No year cutoff here: the date gate decides whether a past
		// date drops the whole row rather than just blanking the cell.
		return normalize.Date(raw, 0)
	case schema.KindTime:
		return normalize.Time(raw)
	case schema.KindCutoff:
		return normalize.Cutoff(raw)
	case schema.KindAge:
		return normalize.Age(raw)
	case schema.KindCost:
		return normalize.Cost(raw)
	case schema.KindNumeric:
		return normalize.Numeric(raw)
	default:
		return normalize.Text(raw)
	}
}

// rowEmpty reports whether every resolved value except the auto-derived
// event name is empty.
func rowEmpty(row map[string]string) bool {
	for name, value := range row {
		if name == "event" {
			continue
		}
		if value != "" {
			return false
		}
	}
	return true
}

// eventName joins festival and variant unless the festival name already
// appears inside the variant name.
func eventName(festival, variant string) string {
	if strings.Contains(strings.ToLower(variant), strings.ToLower(festival)) {
		return variant
	}
	return fmt.Sprintf("%s - %s", festival, variant)
}

// countEditions derives the edition count from the event year and the
// numeric firstEdition, floored at 1.
func countEditions(year, firstEdition string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "1"
	}
	first, err := strconv.Atoi(firstEdition)
	if err != nil || firstEdition == "" {
		return "1"
	}
	count := y - first + 1
	if count < 1 {
		return "1"
	}
	return strconv.Itoa(count)
}
