package lex

// fakeFacade returns canned values regardless of input.
type fakeFacade struct {
	money       []string
	dates       []string
	percents    []string
	durations   []string
	definitions []string
	conditions  []string
	constraints [][]string
	citations   []string
	entities    []Entity
}

func (f *fakeFacade) Money(string) []string         { return f.money }
func (f *fakeFacade) Dates(string) []string         { return f.dates }
func (f *fakeFacade) Percents(string) []string      { return f.percents }
func (f *fakeFacade) Durations(string) []string     { return f.durations }
func (f *fakeFacade) Definitions(string) []string   { return f.definitions }
func (f *fakeFacade) Conditions(string) []string    { return f.conditions }
func (f *fakeFacade) Constraints(string) [][]string { return f.constraints }
func (f *fakeFacade) Citations(string) []string     { return f.citations }
func (f *fakeFacade) Entities(string) []Entity      { return f.entities }
