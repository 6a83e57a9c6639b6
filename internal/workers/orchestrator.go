package workers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
)

// Batch document statuses.
const (
	StatusOK       = "ok"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// BatchWorker analyzes many documents in parallel.
type BatchWorker struct {
	analyzer       *lex.Analyzer
	maxParallel    int
	maxDocuments   int
	defaultTimeout time.Duration
}

type BatchDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type BatchResult struct {
	ID     string              `json:"id"`
	Status string              `json:"status"`
	Result *lex.AnalysisResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func NewBatchWorker(cfg config.BatchConfig, a *lex.Analyzer) *BatchWorker {
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &BatchWorker{
		analyzer:       a,
		maxParallel:    maxParallel,
		maxDocuments:   cfg.MaxDocuments,
		defaultTimeout: cfg.Timeout,
	}
}

func (w *BatchWorker) GetTools() []ToolDef {
	return []ToolDef{
		{Name: "analyze_batch", Description: "Analyze several contracts in parallel; each document gets its own status"},
	}
}

func (w *BatchWorker) Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error) {
	switch shortName("batch", name) {
	case "analyze_batch":
		return w.analyzeBatch(ctx, input)
	default:
		return nil, unknownTool(name)
	}
}

func (w *BatchWorker) analyzeBatch(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req struct {
		Documents []BatchDocument `json:"documents"`
		TimeoutMS int             `json:"timeout_ms"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	if len(req.Documents) == 0 {
		return nil, invalidf("documents required")
	}
	if w.maxDocuments > 0 && len(req.Documents) > w.maxDocuments {
		return nil, invalidf("too many documents (max %d)", w.maxDocuments)
	}

	timeout := w.defaultTimeout
	if req.TimeoutMS > 0 {
		timeout = time.Duration(req.TimeoutMS) * time.Millisecond
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results := w.Run(ctx, req.Documents)

	failed := 0
	for _, r := range results {
		if r.Status != StatusOK {
			failed++
		}
	}
	logger.Info(ctx, "batch analyzed", "documents", len(results), "failed", failed)

	return json.Marshal(map[string]any{
		"results": results,
		"count":   len(results),
		"failed":  failed,
	})
}

// Run analyzes docs with at most maxParallel in flight. Results keep input order.
// Documents not started before ctx is done are reported as canceled.
func (w *BatchWorker) Run(ctx context.Context, docs []BatchDocument) []BatchResult {
	results := make([]BatchResult, len(docs))
	sem := make(chan struct{}, w.maxParallel)
	var wg sync.WaitGroup

	for i, doc := range docs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = BatchResult{ID: doc.ID, Status: StatusCanceled, Error: ctx.Err().Error()}
			continue
		}

		wg.Add(1)
		go func(idx int, doc BatchDocument) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = w.analyzeOne(ctx, doc)
		}(i, doc)
	}

	wg.Wait()
	return results
}

func (w *BatchWorker) analyzeOne(ctx context.Context, doc BatchDocument) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{ID: doc.ID, Status: StatusCanceled, Error: err.Error()}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return BatchResult{ID: doc.ID, Status: StatusFailed, Error: "text must not be empty"}
	}
	res := w.analyzer.Analyze(doc.Text)
	return BatchResult{ID: doc.ID, Status: StatusOK, Result: &res}
}
