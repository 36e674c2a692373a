// Package classify derives aggregate views from parsed accident
// records: a best-effort year per record, a cause category per record,
// and the four grouping reducers consumed by the API layer.
package classify

import (
	"strconv"
	"strings"
	"time"
)

// yearStrategy attempts to read a four-digit year from a raw date
// string. Strategies run in declaration order and the first success
// wins.
type yearStrategy func(raw string) (string, bool)

var yearStrategies = []yearStrategy{
	parseFormat("02-01-2006"), // DD-MM-YYYY
	parseFormat("02/01/06"),   // DD/MM/YY
	parseFormat("2006/01/02"), // YYYY/MM/DD
	parseFragments,
}

// NormalizeYear resolves a raw date string to a four-digit year. It is
// a best-effort heuristic, not a strict parser: ambiguous input never
// fails, it falls through the strategy chain and finally to
// defaultYear.
func NormalizeYear(raw, defaultYear string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultYear
	}
	for _, try := range yearStrategies {
		if year, ok := try(raw); ok {
			return year
		}
	}
	return defaultYear
}

func parseFormat(layout string) yearStrategy {
	return func(raw string) (string, bool) {
		t, err := time.Parse(layout, raw)
		if err != nil {
			return "", false
		}
		return strconv.Itoa(t.Year()), true
	}
}

// parseFragments splits the string on "/" and "-" and reads the last
// numeric group as a 2- or 4-digit year fragment. Two-digit fragments
// pivot at 50: <50 maps to 20YY, >=50 to 19YY.
func parseFragments(raw string) (string, bool) {
	normalized := strings.ReplaceAll(raw, "-", "/")
	var digits []string
	for _, part := range strings.Split(normalized, "/") {
		part = strings.TrimSpace(part)
		if part != "" && isDigits(part) {
			digits = append(digits, part)
		}
	}
	if len(digits) == 0 {
		return "", false
	}
	last := digits[len(digits)-1]
	switch len(last) {
	case 4:
		return last, true
	case 2:
		yy, _ := strconv.Atoi(last)
		if yy < 50 {
			return strconv.Itoa(2000 + yy), true
		}
		return strconv.Itoa(1900 + yy), true
	default:
		return "", false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
