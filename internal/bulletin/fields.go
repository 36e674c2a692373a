package bulletin

import (
	"regexp"
	"strings"

	"github.com/ppiankov/sanket/internal/model"
)

// Per-field patterns, each anchored on the bulletin's label sequence.
// Fields are matched independently: one pattern failing does not
// affect the others.
var (
	datePattern      = regexp.MustCompile(`(?is)Date\s*-\s*(.*?)\s+Mine\s*-`)
	minePattern      = regexp.MustCompile(`(?is)Mine\s*-\s*(.*?)\s+Time\s*-`)
	timePattern      = regexp.MustCompile(`(?is)Time\s*-\s*(.*?)\s+Owner\s*-`)
	ownerPattern     = regexp.MustCompile(`(?is)Owner\s*-\s*(.*?)\s*(?:Dist\.?|District)\s*-\s*`)
	distStatePattern = regexp.MustCompile(`(?is)Dist\.\s*-\s*([^,]+),\s*State\s*-\s*([^\n]+)`)
	personsPattern   = regexp.MustCompile(`(?is)Person\(s\)\s*Killed\s*:\s*(.*?)\n\s*While`)
	descPattern      = regexp.MustCompile(`(?is)(While.*?)\bHad\b`)
	precPattern      = regexp.MustCompile(`(?is)(Had.*?averted\.)`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Parse extracts the fixed field set from one accident block. Fields
// whose pattern does not match are left nil; the record is always
// produced.
func Parse(block string) model.AccidentRecord {
	var rec model.AccidentRecord

	rec.Date = capture(datePattern, block)
	rec.Mine = capture(minePattern, block)
	rec.Time = capture(timePattern, block)
	rec.Owner = capture(ownerPattern, block)

	// District and state share one "Dist. - X, State - Y" clause, so
	// they are matched jointly.
	if m := distStatePattern.FindStringSubmatch(block); m != nil {
		rec.District = trimmed(m[1])
		rec.State = trimmed(m[2])
	}

	rec.PersonsKilled = capture(personsPattern, block)
	rec.Description = collapse(capture(descPattern, block))
	rec.Precaution = collapse(capture(precPattern, block))

	return rec
}

// ParseBlocks parses every block into a record, preserving order.
func ParseBlocks(blocks []string) []model.AccidentRecord {
	records := make([]model.AccidentRecord, 0, len(blocks))
	for _, b := range blocks {
		records = append(records, Parse(b))
	}
	return records
}

func capture(re *regexp.Regexp, block string) *string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	return trimmed(m[1])
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}

// collapse normalizes internal whitespace to single spaces.
func collapse(s *string) *string {
	if s == nil {
		return nil
	}
	out := whitespace.ReplaceAllString(*s, " ")
	return &out
}
