package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order against the cleaned raw value. Numeric
// layouts read day before month.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2006-01-02",
	"2006/1/2",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"Jan 2 2006",
	"January 2006",
	"Jan 2006",
	"2 January",
	"2 Jan",
}

var (
	ordinalRe    = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)
	numericDate  = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
	isoDate      = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	dayMonthYear = regexp.MustCompile(`(?i)(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\w*\s+(\d{4})`)
	monthDayYear = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\w*\s+(\d{1,2})\s+(\d{4})`)
)

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseFuzzyDate resolves a free-form date string to a time.Time with
// day-before-month precedence ("12/01/2026" is the 12th of January).
// Surrounding prose is tolerated; an unresolvable string returns false.
func ParseFuzzyDate(raw string) (time.Time, bool) {
	cleaned := Text(raw)
	if cleaned == "" {
		return time.Time{}, false
	}
	cleaned = ordinalRe.ReplaceAllString(cleaned, "$1")
	cleaned = strings.ReplaceAll(cleaned, ",", " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			if t.Year() == 0 {
				t = t.AddDate(time.Now().Year(), 0, 0)
			}
			return t, true
		}
	}

	// Exact layouts failed: extract a date token out of surrounding prose.
	if m := isoDate.FindStringSubmatch(cleaned); m != nil {
		return makeDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
	}
	if m := numericDate.FindStringSubmatch(cleaned); m != nil {
		year := atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return makeDate(year, time.Month(atoi(m[2])), atoi(m[1]))
	}
	if m := dayMonthYear.FindStringSubmatch(cleaned); m != nil {
		return makeDate(atoi(m[3]), monthNumber(m[2]), atoi(m[1]))
	}
	if m := monthDayYear.FindStringSubmatch(cleaned); m != nil {
		return makeDate(atoi(m[3]), monthNumber(m[1]), atoi(m[2]))
	}

	return time.Time{}, false
}

func monthNumber(name string) time.Month {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	return monthNumbers[key]
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow like 31 February.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// Date normalizes a raw date to DD/MM/YYYY. Dates resolving to a year
// before cutoffYear are rejected as already past.
func Date(raw string, cutoffYear int) string {
	t, ok := ParseFuzzyDate(raw)
	if !ok || t.Year() < cutoffYear {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
}
