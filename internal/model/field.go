package model

import "strings"

// Field holds one attribute value for one event variant, together with
// where it came from and how much the agent trusted it.
type Field struct {
	Value      string   `json:"value"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources,omitempty"`
	InferredBy string   `json:"inferred_by,omitempty"`
}

// NewField constructs a Field, clamping confidence into [0,1].
// A field with no value carries no confidence and no provenance.
func NewField(value string, confidence float64, sources []string, inferredBy string) Field {
	if value == "" {
		return Field{}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Field{
		Value:      value,
		Confidence: confidence,
		Sources:    sources,
		InferredBy: inferredBy,
	}
}

// Inferred reports whether the value was derived by cross-field inference
// rather than observed directly in a source. Inferred values are held to a
// lower acceptance threshold.
func (f Field) Inferred() bool {
	return strings.Contains(f.InferredBy, "inference")
}

// Accept reports whether the field clears the given thresholds. The
// inferred threshold applies when the field is marked as inferred.
func (f Field) Accept(threshold, inferredThreshold float64) bool {
	min := threshold
	if f.Inferred() {
		min = inferredThreshold
	}
	return f.Value != "" && f.Confidence >= min
}

// Variant maps schema field names to field guesses for one sub-event.
type Variant map[string]Field

// KnowledgeBase maps variant names (e.g. "10K Run") to their field guesses.
// A knowledge base is produced once per event by the research agent or
// rehydrated from the knowledge cache, and never mutated within a run.
type KnowledgeBase map[string]Variant
