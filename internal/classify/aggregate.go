package classify

import (
	"sort"

	"github.com/ppiankov/sanket/internal/model"
)

// unknownKey groups records whose attribute is missing.
const unknownKey = "Unknown"

// ByState counts records per state. Missing states group under
// "Unknown".
func ByState(records []model.AccidentRecord) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[keyOrUnknown(rec.State)]++
	}
	return counts
}

// ByYear counts records per normalized year (see NormalizeYear).
func ByYear(records []model.AccidentRecord, defaultYear string) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		raw := ""
		if rec.Date != nil {
			raw = *rec.Date
		}
		counts[NormalizeYear(raw, defaultYear)]++
	}
	return counts
}

// Years returns the keys of a ByYear result sorted ascending.
func Years(counts map[string]int) []string {
	years := make([]string, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// ByCause is the by-cause aggregate: counts per category with the
// bounded example set. See Classify.
func ByCause(records []model.AccidentRecord) model.CauseBreakdown {
	return Classify(records)
}

// ByDistrict counts records per state and district as a two-level
// mapping. Missing values group under "Unknown" at either level.
func ByDistrict(records []model.AccidentRecord) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, rec := range records {
		state := keyOrUnknown(rec.State)
		district := keyOrUnknown(rec.District)
		if out[state] == nil {
			out[state] = make(map[string]int)
		}
		out[state][district]++
	}
	return out
}

func keyOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return unknownKey
	}
	return *s
}
