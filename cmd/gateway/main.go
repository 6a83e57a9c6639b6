package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericksa/lexanalyzer/internal/api"
	"github.com/ericksa/lexanalyzer/internal/audit"
	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
	"github.com/ericksa/lexanalyzer/internal/middleware"
	"github.com/ericksa/lexanalyzer/internal/nlp"
	"github.com/ericksa/lexanalyzer/internal/workers"
	"github.com/ericksa/lexanalyzer/pkg/mcp"
	"github.com/gorilla/mux"
)

// configFileEnv names an explicit config file; otherwise config.yaml is searched for.
const configFileEnv = "LEX_CONFIG_FILE"

func loadConfig() (*config.Config, error) {
	if file := os.Getenv(configFileEnv); file != "" {
		return config.LoadFile(file)
	}
	return config.Load()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	var auditor *audit.Auditor
	if cfg.Audit.Enabled {
		auditor = audit.NewAuditor(cfg.Audit.Path)
		defer auditor.Close()
	}

	analyzer := lex.NewAnalyzer(nlp.New(), cfg.Policy())
	var handler http.Handler = newRouter(cfg, analyzer, auditor)
	// Outside the router so preflight OPTIONS requests reach it.
	if len(cfg.Server.CORSOrigins) > 0 {
		handler = middleware.CORS(cfg.Server.CORSOrigins)(handler)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting lexanalyzer gateway", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
		return
	}
	slog.Info("server stopped")
}

// newRouter wires every HTTP surface: analysis endpoints, direct tool calls,
// the MCP transport and the configuration API.
func newRouter(cfg *config.Config, analyzer *lex.Analyzer, auditor *audit.Auditor) *mux.Router {
	handler := mcp.NewHandler(cfg, analyzer, auditor)

	configAPI := config.NewConfigAPI(cfg)
	configAPI.SetReloader(loadConfig)
	configAPI.OnChange(func(c *config.Config) {
		analyzer.SetPolicy(c.Policy())
		slog.Info("extraction policy updated")
	})

	router := mux.NewRouter()
	middleware.Register(router, cfg, configAPI.Auth)

	router.HandleFunc("/health", healthHandler).Methods("GET")

	api.NewAnalyzeAPI(analyzer, auditor).Register(router)

	router.HandleFunc("/tools", listToolsHandler(handler)).Methods("GET")
	router.HandleFunc("/tools/{worker}/{tool}", executeToolHandler(handler)).Methods("POST")

	// MCP endpoint
	router.PathPrefix("/mcp").Handler(handler)

	configAPI.Register(router)

	return router
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func listToolsHandler(h *mcp.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"workers": h.Workers(),
			"tools":   h.Tools(),
		})
	}
}

func executeToolHandler(h *mcp.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		fullToolName := vars["worker"] + "_" + vars["tool"]

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be JSON"})
			return
		}

		result, err := h.ExecuteTool(r.Context(), fullToolName, body)
		if err != nil {
			writeJSON(w, toolStatus(err), map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(result)
	}
}

func toolStatus(err error) int {
	switch {
	case errors.Is(err, workers.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, workers.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
