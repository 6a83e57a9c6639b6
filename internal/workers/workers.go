// Package workers exposes the analyzer as named tools grouped by document source.
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/lex"
)

var (
	// ErrUnknownTool is returned by Execute for names a worker does not serve.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidInput marks errors caused by the caller's arguments.
	ErrInvalidInput = errors.New("invalid input")
)

type ToolDef struct {
	Name        string
	Description string
}

// Worker is a group of tools. Execute accepts both the short tool name and the
// name prefixed with the worker's own name.
type Worker interface {
	GetTools() []ToolDef
	Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error)
}

// DocumentResult is one analyzed document from an external source.
type DocumentResult struct {
	Source string             `json:"source"`
	Chars  int                `json:"chars"`
	Result lex.AnalysisResult `json:"result"`
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func unknownTool(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// decode unmarshals tool arguments; an empty input decodes as {}.
func decode(input json.RawMessage, v any) error {
	if len(strings.TrimSpace(string(input))) == 0 {
		input = json.RawMessage("{}")
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("%w: failed to parse request: %v", ErrInvalidInput, err)
	}
	return nil
}

// shortName strips a "<worker>_" prefix from name.
func shortName(worker, name string) string {
	return strings.TrimPrefix(name, worker+"_")
}

func analyzeDocument(a *lex.Analyzer, source, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidf("%s contains no text", source)
	}
	return json.Marshal(DocumentResult{Source: source, Chars: len(text), Result: a.Analyze(text)})
}
