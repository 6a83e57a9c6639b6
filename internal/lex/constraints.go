package lex

import "strings"

// ConstraintsFromTuples converts raw facade tuples, dropping any that are not triples.
func ConstraintsFromTuples(tuples [][]string) []Constraint {
	out := make([]Constraint, 0, len(tuples))
	for _, t := range tuples {
		if len(t) != 3 {
			continue
		}
		out = append(out, Constraint{Kind: t[0], Phrase: t[1], Context: t[2]})
	}
	return out
}

// CleanConstraints drops entries with a blank phrase or a context longer than
// maxContext characters. The input is left untouched.
func CleanConstraints(in []Constraint, maxContext int) []Constraint {
	out := make([]Constraint, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.Phrase) == "" {
			continue
		}
		if len([]rune(c.Context)) > maxContext {
			continue
		}
		out = append(out, c)
	}
	return out
}

func appendConstraint(list []Constraint, c Constraint) []Constraint {
	for _, existing := range list {
		if existing == c {
			return list
		}
	}
	return append(list, c)
}
