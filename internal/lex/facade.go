package lex

// Entity labels produced by a Facade.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
	LabelOrg          = "ORG"
	LabelLocation     = "LOCATION"
	LabelDate         = "DATE"
	LabelMisc         = "MISC"
)

// Entity is a labeled span of text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Facade is the general-purpose extraction capability the pipeline builds its baseline from.
// Every method returns matches in document order and must be safe for concurrent use.
type Facade interface {
	Money(text string) []string
	Dates(text string) []string
	Percents(text string) []string
	Durations(text string) []string
	Definitions(text string) []string
	Conditions(text string) []string
	// Constraints returns raw tuples; well-formed ones have exactly three fields.
	Constraints(text string) [][]string
	Citations(text string) []string
	Entities(text string) []Entity
}
