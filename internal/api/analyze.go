// Package api serves the analysis pipeline over plain JSON HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ericksa/lexanalyzer/internal/audit"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
	"github.com/gorilla/mux"
)

// Request validation errors, all reported as 400.
var (
	ErrNotJSON     = errors.New("request body must be a JSON object")
	ErrMissingText = errors.New("text is required")
	ErrTextType    = errors.New("text must be a string")
	ErrEmptyText   = errors.New("text must not be empty")
)

const defaultAuditLimit = 50

// AnalyzeAPI exposes the analyzer as POST endpoints.
type AnalyzeAPI struct {
	analyzer *lex.Analyzer
	auditor  *audit.Auditor
	router   *mux.Router
}

func NewAnalyzeAPI(a *lex.Analyzer, auditor *audit.Auditor) *AnalyzeAPI {
	api := &AnalyzeAPI{analyzer: a, auditor: auditor, router: mux.NewRouter()}
	api.Register(api.router)
	return api
}

func (api *AnalyzeAPI) Router() *mux.Router {
	return api.router
}

// Register mounts the routes on r.
func (api *AnalyzeAPI) Register(r *mux.Router) {
	r.HandleFunc("/analyze", api.analyze).Methods("POST")
	r.HandleFunc("/classify", api.classify).Methods("POST")
	r.HandleFunc("/summarize", api.summarize).Methods("POST")
	r.HandleFunc("/audit", api.auditLog).Methods("GET")
}

// ParseText extracts the "text" field from a JSON object body.
func ParseText(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return "", ErrNotJSON
	}
	raw, ok := fields["text"]
	if !ok {
		return "", ErrMissingText
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", ErrTextType
	}
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func (api *AnalyzeAPI) analyze(w http.ResponseWriter, r *http.Request) {
	api.handle(w, r, "analyze", func(text string) any {
		return api.analyzer.Analyze(text)
	})
}

func (api *AnalyzeAPI) classify(w http.ResponseWriter, r *http.Request) {
	api.handle(w, r, "classify", func(text string) any {
		return map[string]lex.ContractType{"contract_type": lex.Classify(text)}
	})
}

func (api *AnalyzeAPI) summarize(w http.ResponseWriter, r *http.Request) {
	api.handle(w, r, "summarize", func(text string) any {
		return map[string]string{"summary": api.analyzer.Summarize(text)}
	})
}

func (api *AnalyzeAPI) handle(w http.ResponseWriter, r *http.Request, op string, run func(string) any) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return
	}
	text, err := ParseText(body)
	if err != nil {
		api.auditor.Log(op, body, nil, err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := json.Marshal(run(text))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode result: %w", err))
		return
	}
	api.auditor.Log(op, body, out, nil)
	logger.Debug(r.Context(), "request analyzed", "op", op, "chars", len(text))

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

func (api *AnalyzeAPI) auditLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %q", s))
			return
		}
		limit = n
	}
	entries, err := api.auditor.GetLogs(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []audit.AuditEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
