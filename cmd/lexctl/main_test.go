package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const leaseText = "This Lease Agreement is between Jane Doe and Acme Corp. Rent is $1,200.00 monthly."

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte(leaseText), 0644))

	out, err := execute(t, "", "analyze", path)
	require.NoError(t, err)

	var res lex.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, lex.Lease, res.ContractType)
	assert.Equal(t, []string{"$1200.00"}, res.ExtractedData.PaymentTerms.Money)
}

func TestClassifyStdin(t *testing.T) {
	out, err := execute(t, "The property is sold to the buyer.", "classify")
	require.NoError(t, err)
	assert.JSONEq(t, `{"contract_type":"deed_of_sale"}`, out)

	out, err = execute(t, "The landlord agrees.", "classify", "-", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "contract_type: rent\n", out)
}

func TestSummarizeYAML(t *testing.T) {
	out, err := execute(t, leaseText, "summarize", "-f", "yaml")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Contains(t, resp["summary"], "Acme Corp")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "   ", "analyze")
	assert.ErrorContains(t, err, "input is empty")

	_, err = execute(t, leaseText, "analyze", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = execute(t, "", "analyze", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read input")

	_, err = execute(t, leaseText, "analyze", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigFilePolicy(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "extraction:\n  party_min_person_words: 5\n  party_max_words: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := execute(t, leaseText, "analyze", "--config", cfgPath)
	assert.ErrorContains(t, err, "invalid extraction policy")
}
