package workers

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/lex"
)

// ContractWorker runs the analyzer on inline text.
type ContractWorker struct {
	analyzer *lex.Analyzer
}

// Fields accepted by extract_field.
var ContractFields = []string{
	"contract_type", "summary", "parties", "money", "percents", "duration", "dates",
	"definitions", "conditions", "constraints", "citations", "late_payment_penalty", "property_address",
}

func NewContractWorker(a *lex.Analyzer) *ContractWorker {
	return &ContractWorker{analyzer: a}
}

func (w *ContractWorker) GetTools() []ToolDef {
	return []ToolDef{
		{Name: "analyze", Description: "Classify a contract and extract parties, payments, dates, constraints and a summary"},
		{Name: "classify", Description: "Classify a contract as deed_of_sale, lease, rent or unknown"},
		{Name: "summarize", Description: "Summarize a contract in one sentence"},
		{Name: "extract_field", Description: "Extract a single field (e.g. parties, money, property_address) from a contract"},
	}
}

func (w *ContractWorker) Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error) {
	switch shortName("contract", name) {
	case "analyze":
		return w.analyze(input)
	case "classify":
		return w.classify(input)
	case "summarize":
		return w.summarize(input)
	case "extract_field":
		return w.extractField(input)
	default:
		return nil, unknownTool(name)
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func parseText(input json.RawMessage) (string, error) {
	var req textRequest
	if err := decode(input, &req); err != nil {
		return "", err
	}
	if req.Text == "" {
		return "", invalidf("text is required")
	}
	return req.Text, nil
}

func (w *ContractWorker) analyze(input json.RawMessage) ([]byte, error) {
	text, err := parseText(input)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w.analyzer.Analyze(text))
}

func (w *ContractWorker) classify(input json.RawMessage) ([]byte, error) {
	text, err := parseText(input)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]lex.ContractType{"contract_type": lex.Classify(text)})
}

func (w *ContractWorker) summarize(input json.RawMessage) ([]byte, error) {
	text, err := parseText(input)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{"summary": w.analyzer.Summarize(text)})
}

func (w *ContractWorker) extractField(input json.RawMessage) ([]byte, error) {
	var req struct {
		Text  string `json:"text"`
		Field string `json:"field"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	if req.Text == "" {
		return nil, invalidf("text is required")
	}
	field := strings.ToLower(strings.TrimSpace(req.Field))
	if !slices.Contains(ContractFields, field) {
		return nil, invalidf("unknown field %q (want one of %s)", req.Field, strings.Join(ContractFields, ", "))
	}

	res := w.analyzer.Analyze(req.Text)
	return json.Marshal(map[string]any{"field": field, "value": fieldValue(res, field)})
}

func fieldValue(res lex.AnalysisResult, field string) any {
	d := res.ExtractedData
	switch field {
	case "contract_type":
		return res.ContractType
	case "summary":
		return res.Summary
	case "parties":
		return d.Parties
	case "money":
		return d.PaymentTerms.Money
	case "percents":
		return d.PaymentTerms.Percents
	case "duration":
		return d.Duration
	case "dates":
		return d.Dates
	case "definitions":
		return d.Definitions
	case "conditions":
		return d.Conditions
	case "constraints":
		return d.Constraints
	case "citations":
		return d.Citations
	case "late_payment_penalty":
		return nonNil(d.LatePaymentPenalty)
	case "property_address":
		return nonNil(d.PropertyAddress)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
