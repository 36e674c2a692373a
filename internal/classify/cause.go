package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/sanket/internal/model"
)

// maxExamplesPerCategory bounds the representative records retained
// per category during classification.
const maxExamplesPerCategory = 6

// keywordRule maps a lowercase substring to a cause category. Rules
// are scanned linearly and the first match wins, so declaration order
// is the tie-break when several keywords co-occur in one narrative.
type keywordRule struct {
	keyword  string
	category model.CauseCategory
}

// narrativeRules is scanned in order against the record's combined
// narrative text. Do not reorder: the sequence encodes specificity
// (e.g. "fall of roof" before the bare "fall").
var narrativeRules = []keywordRule{
	{"fall of roof", model.CauseFallOfRoof},
	{"roof fall", model.CauseFallOfRoof},
	{"fall of side", model.CauseFallOfRoof},
	{"slip", model.CauseFallOfRoof},
	{"collapse", model.CauseFallOfRoof},
	{"machine", model.CauseMachinery},
	{"machinery", model.CauseMachinery},
	{"crush", model.CauseMachinery},
	{"caught in", model.CauseMachinery},
	{"entangled", model.CauseMachinery},
	{"explosion", model.CauseExplosion},
	{"blast", model.CauseExplosion},
	{"gas", model.CauseExplosion},
	{"electr", model.CauseElectrical},
	{"short circuit", model.CauseElectrical},
	{"fire", model.CauseFire},
	{"burn", model.CauseFire},
	{"transport", model.CauseTransportation},
	{"vehicle", model.CauseTransportation},
	{"truck", model.CauseTransportation},
	{"trolley", model.CauseTransportation},
	{"collision", model.CauseTransportation},
	{"diesel", model.CauseMachinery},
	{"compressor", model.CauseMachinery},
	{"fall from", model.CauseFallOfRoof},
	{"fall", model.CauseFallOfRoof},
	{"gas leak", model.CauseExplosion},
	{"methane", model.CauseExplosion},
	{"oxygen deficiency", model.CauseExplosion},
	{"inrush", model.CauseFallOfRoof},
}

// explicitGroups maps keyword groups to categories for the
// explicit-cause fast path. The groups overlap with narrativeRules but
// are deliberately kept as an independent pass with its own ordering.
var explicitGroups = []struct {
	keywords []string
	category model.CauseCategory
}{
	{[]string{"machin", "equip", "vehicle", "compressor", "diesel"}, model.CauseMachinery},
	{[]string{"roof", "fall", "collapse", "inrush", "slip"}, model.CauseFallOfRoof},
	{[]string{"elect", "short", "circuit"}, model.CauseElectrical},
	{[]string{"explosion", "blast", "gas", "methane", "leak"}, model.CauseExplosion},
	{[]string{"fire", "burn"}, model.CauseFire},
	{[]string{"transport", "vehic", "truck", "collision", "trolley"}, model.CauseTransportation},
}

// CategoryOf assigns exactly one cause category to a record. An
// explicit cause field is tried first (category-name substring, then
// keyword groups); otherwise the combined narrative text is scanned
// against the ordered keyword table. Nothing matching means Other.
func CategoryOf(rec model.AccidentRecord) model.CauseCategory {
	if rec.Cause != nil {
		explicit := strings.ToLower(strings.TrimSpace(*rec.Cause))
		if explicit != "" {
			for _, cat := range model.CauseCategories {
				if strings.Contains(explicit, strings.ToLower(string(cat))) {
					return cat
				}
			}
			for _, group := range explicitGroups {
				for _, kw := range group.keywords {
					if strings.Contains(explicit, kw) {
						return group.category
					}
				}
			}
		}
	}

	text := strings.ToLower(NarrativeText(rec))
	for _, rule := range narrativeRules {
		if strings.Contains(text, rule.keyword) {
			return rule.category
		}
	}
	return model.CauseOther
}

// NarrativeText concatenates the record's narrative-like fields
// (explicit cause, description, precaution) into one string.
func NarrativeText(rec model.AccidentRecord) string {
	var parts []string
	for _, f := range []*string{rec.Cause, rec.Description, rec.Precaution} {
		if f != nil && *f != "" {
			parts = append(parts, *f)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Classify assigns a category to every record and returns counts plus
// up to six representative examples per category. Classification is
// deterministic: repeated runs over the same record set produce
// identical assignments.
func Classify(records []model.AccidentRecord) model.CauseBreakdown {
	counts := make(map[model.CauseCategory]int)
	examples := make(map[model.CauseCategory][]model.CauseExample, len(model.CauseCategories))
	retained := make(map[model.CauseCategory]int)
	for _, cat := range model.CauseCategories {
		examples[cat] = []model.CauseExample{}
	}

	for idx, rec := range records {
		cat := CategoryOf(rec)
		counts[cat]++

		if retained[cat] < maxExamplesPerCategory {
			retained[cat]++
			examples[cat] = append(examples[cat], model.CauseExample{
				Idx:     idx,
				Snippet: snippet(NarrativeText(rec), 300),
				Record:  rec,
			})
		}
	}

	return model.CauseBreakdown{Counts: counts, Examples: examples}
}

// snippet truncates to at most max bytes without splitting a rune.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
