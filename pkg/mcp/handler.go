// Package mcp publishes the contract workers as Model Context Protocol tools
// and routes direct tool calls from the HTTP gateway.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/audit"
	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
	"github.com/ericksa/lexanalyzer/internal/workers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "lexanalyzer"
	serverVersion = "1.0.0"
)

// ToolInfo describes one published tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Worker      string `json:"worker"`
	Description string `json:"description"`
}

type Handler struct {
	audit   *audit.Auditor
	workers map[string]workers.Worker
	server  *mcp.Server
	http    http.Handler
}

// NewHandler registers the contract worker plus every source worker enabled in cfg.
func NewHandler(cfg *config.Config, a *lex.Analyzer, auditor *audit.Auditor) *Handler {
	h := &Handler{
		audit:   auditor,
		workers: make(map[string]workers.Worker),
	}

	// Contract worker (always enabled)
	h.workers["contract"] = workers.NewContractWorker(a)

	if cfg.Workers.Files.Enabled {
		h.workers["files"] = workers.NewFileWorker(cfg.Workers.Files, a)
	}
	if cfg.Workers.Batch.Enabled {
		h.workers["batch"] = workers.NewBatchWorker(cfg.Workers.Batch, a)
	}
	if cfg.Workers.Web.Enabled {
		h.workers["web"] = workers.NewWebWorker(cfg.Workers.Web, a)
	}

	// MinIO worker for S3-compatible storage
	if cfg.Workers.MinIO.Enabled {
		minioWorker, err := workers.NewMinIOWorker(cfg.Workers.MinIO, a)
		if err != nil {
			logger.Warn(context.Background(), "failed to initialize MinIO worker", "error", err)
		} else {
			h.workers["minio"] = minioWorker
		}
	}

	h.initMCPServer()
	return h
}

func (h *Handler) initMCPServer() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	for _, tool := range h.Tools() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
		}, h.wrapTool(h.workers[tool.Worker], tool.Name))
	}

	h.server = server
	h.http = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (h *Handler) wrapTool(w workers.Worker, toolName string) func(ctx context.Context, req *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input map[string]any) (*mcp.CallToolResult, any, error) {
		inputBytes, err := json.Marshal(input)
		if err != nil {
			return nil, nil, err
		}
		result, err := h.execute(ctx, w, toolName, inputBytes)
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{
					&mcp.TextContent{Text: err.Error()},
				},
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(result)},
			},
		}, nil, nil
	}
}

func (h *Handler) execute(ctx context.Context, w workers.Worker, toolName string, args json.RawMessage) ([]byte, error) {
	ctx = context.WithValue(ctx, logger.ToolKey, toolName)
	result, err := w.Execute(ctx, toolName, args)
	h.audit.Log(toolName, args, result, err)
	if err != nil {
		logger.Warn(ctx, "tool failed", "error", err)
	} else {
		logger.Debug(ctx, "tool executed", "bytes", len(result))
	}
	return result, err
}

// ServeHTTP serves the MCP streamable HTTP transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.http == nil {
		http.Error(w, "MCP server not initialized", http.StatusInternalServerError)
		return
	}
	h.http.ServeHTTP(w, r)
}

// Server returns the underlying MCP server, e.g. to run it over stdio.
func (h *Handler) Server() *mcp.Server {
	return h.server
}

// ExecuteTool runs a tool by its full "<worker>_<tool>" name.
func (h *Handler) ExecuteTool(ctx context.Context, toolName string, args json.RawMessage) ([]byte, error) {
	for name, worker := range h.workers {
		fullPrefix := name + "_"
		if len(toolName) > len(fullPrefix) && strings.HasPrefix(toolName, fullPrefix) {
			return h.execute(ctx, worker, toolName, args)
		}
	}
	return nil, fmt.Errorf("%w: %s", workers.ErrUnknownTool, toolName)
}

// Tools lists every published tool sorted by name.
func (h *Handler) Tools() []ToolInfo {
	var tools []ToolInfo
	for name, worker := range h.workers {
		for _, tool := range worker.GetTools() {
			tools = append(tools, ToolInfo{
				Name:        fmt.Sprintf("%s_%s", name, tool.Name),
				Worker:      name,
				Description: tool.Description,
			})
		}
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// Workers returns the registered worker names, sorted.
func (h *Handler) Workers() []string {
	names := make([]string, 0, len(h.workers))
	for name := range h.workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is done or the
// client disconnects.
func (h *Handler) ServeStdio(ctx context.Context) error {
	return h.server.Run(ctx, &mcp.StdioTransport{})
}
