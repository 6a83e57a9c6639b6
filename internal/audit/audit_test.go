package audit

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditorLogAndGet(t *testing.T) {
	a, err := Open(":memory:")
	require.NoError(t, err)
	defer a.Close()

	a.Log("contract_analyze", json.RawMessage(`{"text":"x"}`), []byte(`{"ok":true}`), nil)
	a.Log("contract_classify", json.RawMessage(`{}`), nil, errors.New("text is required"))

	entries, err := a.GetLogs(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "contract_classify", entries[0].Tool)
	assert.Equal(t, "text is required", entries[0].Error)
	assert.Equal(t, "contract_analyze", entries[1].Tool)
	assert.Equal(t, `{"text":"x"}`, entries[1].Input)
	assert.Empty(t, entries[1].Error)
	assert.False(t, entries[1].Timestamp.IsZero())

	limited, err := a.GetLogs(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAuditorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.db")
	a, err := Open(path)
	require.NoError(t, err)
	a.Log("analyze", nil, nil, nil)
	a.Close()

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	entries, err := reopened.GetLogs(5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestZeroAuditorIsNoop(t *testing.T) {
	var a Auditor
	assert.False(t, a.Enabled())
	a.Log("analyze", nil, nil, nil)
	entries, err := a.GetLogs(10)
	assert.NoError(t, err)
	assert.Nil(t, entries)
	a.Close()

	var nilAuditor *Auditor
	assert.False(t, nilAuditor.Enabled())
	nilAuditor.Log("analyze", nil, nil, nil)
}
