package workers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractAnalyze(t *testing.T) {
	w := NewContractWorker(newAnalyzer())
	out, err := w.Execute(context.Background(), "contract_analyze", args(t, map[string]string{"text": leaseText}))
	require.NoError(t, err)

	var res lex.AnalysisResult
	require.NoError(t, json.Unmarshal(out, &res))
	assert.Equal(t, lex.Lease, res.ContractType)
	assert.Equal(t, []string{"123 Main Street"}, res.ExtractedData.PropertyAddress)
}

func TestContractClassifyAndSummarize(t *testing.T) {
	w := NewContractWorker(newAnalyzer())
	ctx := context.Background()

	out, err := w.Execute(ctx, "classify", args(t, map[string]string{"text": "The landlord agrees."}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"contract_type":"rent"}`, string(out))

	out, err = w.Execute(ctx, "summarize", args(t, map[string]string{"text": leaseText}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "123 Main Street")
}

func TestContractMissingText(t *testing.T) {
	w := NewContractWorker(newAnalyzer())
	for _, tool := range []string{"analyze", "classify", "summarize", "extract_field"} {
		_, err := w.Execute(context.Background(), tool, args(t, map[string]string{}))
		assert.ErrorIs(t, err, ErrInvalidInput, tool)
	}
}

func TestContractExtractField(t *testing.T) {
	w := NewContractWorker(newAnalyzer())
	tests := []struct {
		field string
		want  string
	}{
		{"parties", `{"field":"parties","value":["Acme Corp","Jane Doe"]}`},
		{"Money", `{"field":"money","value":["$1200.00","$50.00"]}`},
		{"contract_type", `{"field":"contract_type","value":"lease"}`},
		{"citations", `{"field":"citations","value":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			out, err := w.Execute(context.Background(), "extract_field", args(t, map[string]string{"text": leaseText, "field": tt.field}))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}

	out, err := w.Execute(context.Background(), "extract_field", args(t, map[string]string{"text": leaseText, "field": "constraints"}))
	require.NoError(t, err)
	assert.Contains(t, string(out), `["recurring","monthly",""]`)

	out, err = w.Execute(context.Background(), "extract_field", args(t, map[string]string{"text": "no fees", "field": "late_payment_penalty"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"late_payment_penalty","value":[]}`, string(out))

	_, err = w.Execute(context.Background(), "extract_field", args(t, map[string]string{"text": leaseText, "field": "color"}))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
