// Package normalize maps raw, noisy field strings to canonical values.
// Every normalizer is fail-soft: unparsable input yields an empty string,
// never an error, because partial rows beat a failed pipeline.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholders are agent/OCR tokens that mean "no value".
var placeholders = map[string]bool{
	"":              true,
	"na":            true,
	"n/a":           true,
	"none":          true,
	"not specified": true,
	"null":          true,
}

// Text trims the raw value, repairs encoding artifacts, and maps
// placeholder tokens to empty.
func Text(raw string) string {
	text := strings.TrimSpace(FixEncoding(raw))
	if placeholders[strings.ToLower(text)] {
		return ""
	}
	return text
}

// Choice matches the raw value against an allowed option list,
// case-insensitively and exactly, returning the option's canonical
// casing. No match means empty: choices are never guessed.
func Choice(raw string, options []string) string {
	cleaned := Text(raw)
	if cleaned == "" {
		return ""
	}
	for _, option := range options {
		if strings.EqualFold(cleaned, option) {
			return option
		}
	}
	return ""
}

var (
	timeRe    = regexp.MustCompile(`(?i)(\d{1,2})[:.]?(\d{2})?\s*(am|pm)?`)
	cutoffRe  = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}(?::\d{2})?|\d+\s*hours?|\d+\s*hr?s?\.?|\d+\s*minutes?|\d+\s*mins?\.?)`)
	ageRe     = regexp.MustCompile(`(\d+)\+?`)
	costRe    = regexp.MustCompile(`(\d+)`)
	numericRe = regexp.MustCompile(`(\d+\.?\d*|\.\d+)`)
)

// Time extracts an hour[:minute][am/pm] token and renders it as 12-hour
// "hh:mm AM/PM". Without an am/pm marker, hours in [5,12) read as AM and
// everything else as PM: races start early or run into the evening.
func Time(raw string) string {
	cleaned := Text(raw)
	if cleaned == "" {
		return ""
	}
	m := timeRe.FindStringSubmatch(cleaned)
	if m == nil {
		return ""
	}

	hour := atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute = atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return ""
	}

	marker := strings.ToUpper(m[3])
	if marker == "" {
		if hour >= 5 && hour < 12 {
			marker = "AM"
		} else {
			marker = "PM"
		}
	}
	if marker == "PM" && hour < 12 {
		hour += 12
	}
	if marker == "AM" && hour == 12 {
		hour = 0
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", display, minute, suffix)
}

// Cutoff extracts the first clock-time or "N hours/minutes" token and
// passes it through verbatim. No unit conversion.
func Cutoff(raw string) string {
	m := cutoffRe.FindStringSubmatch(Text(raw))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Age extracts the first number from an age-limit phrase and emits the
// canonical "N+" form.
func Age(raw string) string {
	m := ageRe.FindStringSubmatch(Text(raw))
	if m == nil {
		return ""
	}
	return m[1] + "+"
}

// Cost normalizes a registration cost: any mention of "free" means "0",
// otherwise the integer part of the first numeric token with thousands
// separators stripped.
func Cost(raw string) string {
	cleaned := Text(raw)
	if cleaned == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(cleaned), "free") {
		return "0"
	}
	m := costRe.FindStringSubmatch(strings.ReplaceAll(cleaned, ",", ""))
	if m == nil {
		return ""
	}
	return m[1]
}

// Numeric extracts the first decimal number (integer or float) from the
// raw text. Used for distances, elevation gain/loss, editions, and
// temperatures.
func Numeric(raw string) string {
	m := numericRe.FindStringSubmatch(Text(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// atoi parses digits already matched by a \d+ group; no error path.
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
