package lex

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ContractType is the coarse category of a document.
type ContractType string

const (
	DeedOfSale ContractType = "deed_of_sale"
	Lease      ContractType = "lease"
	Rent       ContractType = "rent"
	Unknown    ContractType = "unknown"
)

// Constraint is a (kind, phrase, context) triple such as ("within", "5 business days", "of notice").
// It is encoded as a three element array.
type Constraint struct {
	Kind    string
	Phrase  string
	Context string
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{c.Kind, c.Phrase, c.Context})
}

func (c *Constraint) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 3 {
		return fmt.Errorf("constraint must have 3 fields, got %d", len(fields))
	}
	c.Kind, c.Phrase, c.Context = fields[0], fields[1], fields[2]
	return nil
}

func (c Constraint) MarshalYAML() (interface{}, error) {
	return []string{c.Kind, c.Phrase, c.Context}, nil
}

// PaymentTerms groups monetary facts.
type PaymentTerms struct {
	Money    []string `json:"money" yaml:"money"`
	Percents []string `json:"percents" yaml:"percents"`
}

// ExtractedData is the normalized record for one document.
// LatePaymentPenalty and PropertyAddress are nil when nothing matched.
type ExtractedData struct {
	Parties            []string     `json:"parties" yaml:"parties"`
	PaymentTerms       PaymentTerms `json:"payment_terms" yaml:"payment_terms"`
	Duration           []string     `json:"duration" yaml:"duration"`
	Dates              []string     `json:"dates" yaml:"dates"`
	Definitions        []string     `json:"definitions" yaml:"definitions"`
	Conditions         []string     `json:"conditions" yaml:"conditions"`
	Constraints        []Constraint `json:"constraints" yaml:"constraints"`
	Citations          []string     `json:"citations" yaml:"citations"`
	LatePaymentPenalty []string     `json:"late_payment_penalty,omitempty" yaml:"late_payment_penalty,omitempty"`
	PropertyAddress    []string     `json:"property_address,omitempty" yaml:"property_address,omitempty"`
}

// Clone returns a deep copy. Required sequences come back non-nil so they encode as [].
func (d ExtractedData) Clone() ExtractedData {
	return ExtractedData{
		Parties: cloneStrings(d.Parties),
		PaymentTerms: PaymentTerms{
			Money:    cloneStrings(d.PaymentTerms.Money),
			Percents: cloneStrings(d.PaymentTerms.Percents),
		},
		Duration:           cloneStrings(d.Duration),
		Dates:              cloneStrings(d.Dates),
		Definitions:        cloneStrings(d.Definitions),
		Conditions:         cloneStrings(d.Conditions),
		Constraints:        append(make([]Constraint, 0, len(d.Constraints)), d.Constraints...),
		Citations:          cloneStrings(d.Citations),
		LatePaymentPenalty: optional(d.LatePaymentPenalty),
		PropertyAddress:    optional(d.PropertyAddress),
	}
}

// AnalysisResult is the full output for one document.
type AnalysisResult struct {
	ContractType  ContractType  `json:"contract_type" yaml:"contract_type"`
	ExtractedData ExtractedData `json:"extracted_data" yaml:"extracted_data"`
	Summary       string        `json:"summary" yaml:"summary"`
}

func cloneStrings(s []string) []string {
	return append(make([]string, 0, len(s)), s...)
}

// optional keeps absent fields absent and drops empty ones.
func optional(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
