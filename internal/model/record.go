package model

// AccidentRecord is one parsed accident entry from a Sanket bulletin.
// Every field is nullable: a regex that fails to match leaves the field
// nil, it never drops the record. The attribute set is fixed-shape, so
// serialized records always carry all nine columns.
type AccidentRecord struct {
	Date          *string `json:"Date"`           // Raw date string, e.g. "16/05/15" or "16-05-2015"
	Mine          *string `json:"Mine"`           // Mine name
	Time          *string `json:"Time"`           // Time of the accident (free text)
	Owner         *string `json:"Owner"`          // Owning company
	District      *string `json:"District"`       // District within the state
	State         *string `json:"State"`          // State name
	PersonsKilled *string `json:"Persons_Killed"` // Free text, not guaranteed numeric
	Description   *string `json:"Description"`    // Narrative, whitespace-normalized
	Precaution    *string `json:"Precaution"`     // "Had ... averted." clause, whitespace-normalized

	// Cause is an optional explicit cause annotation. Bulletin parsing
	// never sets it, but datasets loaded from JSON may carry one; the
	// classifier prefers it over the narrative keyword scan.
	Cause *string `json:"Cause,omitempty"`
}

// CSVHeader is the exact column order for persisted record files.
var CSVHeader = []string{
	"Date", "Mine", "Time", "Owner", "District", "State",
	"Persons_Killed", "Description", "Precaution",
}

// Columns returns the record's values in CSVHeader order. Nil fields
// render as empty strings.
func (r AccidentRecord) Columns() []string {
	fields := []*string{
		r.Date, r.Mine, r.Time, r.Owner, r.District, r.State,
		r.PersonsKilled, r.Description, r.Precaution,
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if f != nil {
			out[i] = *f
		}
	}
	return out
}

// CauseCategory is one of the fixed accident cause categories. The set
// is closed; every record maps to exactly one category.
type CauseCategory string

const (
	CauseFallOfRoof     CauseCategory = "Fall of Roof"
	CauseMachinery      CauseCategory = "Machinery Accident"
	CauseExplosion      CauseCategory = "Explosion"
	CauseElectrical     CauseCategory = "Electrical Accident"
	CauseFire           CauseCategory = "Fire Incident"
	CauseTransportation CauseCategory = "Transportation Accident"
	CauseOther          CauseCategory = "Other"
)

// CauseCategories lists all categories in canonical order.
var CauseCategories = []CauseCategory{
	CauseFallOfRoof,
	CauseMachinery,
	CauseExplosion,
	CauseElectrical,
	CauseFire,
	CauseTransportation,
	CauseOther,
}

// CauseExample is one retained representative record for a category.
type CauseExample struct {
	Idx     int            `json:"idx"`     // Position in extraction order
	Snippet string         `json:"snippet"` // Narrative text, truncated
	Record  AccidentRecord `json:"record"`  // Full record
}

// CauseBreakdown is the by-cause aggregate: counts per category plus a
// bounded set of representative examples per category.
type CauseBreakdown struct {
	Counts   map[CauseCategory]int            `json:"counts"`
	Examples map[CauseCategory][]CauseExample `json:"examples"`
}
