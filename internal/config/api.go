package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

const redacted = "***"

// ConfigAPI provides HTTP endpoints to view and modify configuration
type ConfigAPI struct {
	cfg      *Config
	mu       sync.RWMutex
	router   *mux.Router
	reload   func() (*Config, error)
	onChange []func(*Config)
}

func NewConfigAPI(cfg *Config) *ConfigAPI {
	api := &ConfigAPI{
		cfg:    cfg,
		router: mux.NewRouter(),
		reload: func() (*Config, error) { return Load() },
	}
	api.routes()
	return api
}

func (api *ConfigAPI) Router() *mux.Router {
	return api.router
}

// OnChange registers fn to run after every accepted update or reload.
func (api *ConfigAPI) OnChange(fn func(*Config)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.onChange = append(api.onChange, fn)
}

// Auth returns the current auth settings.
func (api *ConfigAPI) Auth() AuthConfig {
	api.mu.RLock()
	defer api.mu.RUnlock()
	auth := api.cfg.Auth
	auth.ExemptPaths = append([]string(nil), auth.ExemptPaths...)
	return auth
}

// SetReloader replaces the function used by POST /configure/reload.
func (api *ConfigAPI) SetReloader(fn func() (*Config, error)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.reload = fn
}

// Register mounts the configuration routes on r.
func (api *ConfigAPI) Register(r *mux.Router) {
	api.routesOn(r)
}

func (api *ConfigAPI) routes() {
	api.routesOn(api.router)
}

func (api *ConfigAPI) routesOn(r *mux.Router) {
	r.HandleFunc("/configure", api.getConfig).Methods("GET")
	r.HandleFunc("/configure/", api.getConfig).Methods("GET")
	r.HandleFunc("/configure", api.updateConfig).Methods("POST")
	r.HandleFunc("/configure/reload", api.reloadConfig).Methods("POST")
	r.HandleFunc("/configure/validate", api.validateConfig).Methods("POST")
	r.HandleFunc("/configure/extraction", api.getExtraction).Methods("GET")
	r.HandleFunc("/configure/workers", api.listWorkers).Methods("GET")
	r.HandleFunc("/configure/workers/{worker}", api.getWorkerConfig).Methods("GET")
}

func (api *ConfigAPI) getConfig(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	writeJSON(w, api.safeConfigCopy())
}

func (api *ConfigAPI) updateConfig(w http.ResponseWriter, r *http.Request) {
	var newCfg Config
	if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
		http.Error(w, fmt.Sprintf("invalid config payload: %v", err), http.StatusBadRequest)
		return
	}
	api.keepRedacted(&newCfg)
	if err := newCfg.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid configuration: %v", err), http.StatusBadRequest)
		return
	}
	api.apply(&newCfg)
	slog.Info("configuration updated", "remote", r.RemoteAddr)

	api.mu.RLock()
	defer api.mu.RUnlock()
	writeJSON(w, api.safeConfigCopy())
}

func (api *ConfigAPI) reloadConfig(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	reload := api.reload
	api.mu.RUnlock()

	reloadedCfg, err := reload()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to reload config: %v", err), http.StatusInternalServerError)
		return
	}
	if err := reloadedCfg.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid configuration: %v", err), http.StatusInternalServerError)
		return
	}
	api.apply(reloadedCfg)
	slog.Info("configuration reloaded")

	api.mu.RLock()
	defer api.mu.RUnlock()
	writeJSON(w, api.safeConfigCopy())
}

// keepRedacted restores secrets that a client echoed back from GET /configure.
func (api *ConfigAPI) keepRedacted(cfg *Config) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	if cfg.Auth.Token == redacted {
		cfg.Auth.Token = api.cfg.Auth.Token
	}
	if cfg.Workers.MinIO.AccessKey == redacted {
		cfg.Workers.MinIO.AccessKey = api.cfg.Workers.MinIO.AccessKey
	}
	if cfg.Workers.MinIO.SecretKey == redacted {
		cfg.Workers.MinIO.SecretKey = api.cfg.Workers.MinIO.SecretKey
	}
}

// apply stores cfg and notifies listeners outside the lock.
func (api *ConfigAPI) apply(cfg *Config) {
	api.mu.Lock()
	*api.cfg = *cfg
	snapshot := *api.cfg
	listeners := append([]func(*Config){}, api.onChange...)
	api.mu.Unlock()

	for _, fn := range listeners {
		fn(&snapshot)
	}
}

func (api *ConfigAPI) validateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, fmt.Sprintf("invalid config payload: %v", err), http.StatusBadRequest)
		return
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("invalid configuration: %v", err), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]interface{}{"valid": true, "message": "configuration is valid"})
}

func (api *ConfigAPI) getExtraction(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	writeJSON(w, api.cfg.Policy())
}

func (api *ConfigAPI) listWorkers(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	defer api.mu.RUnlock()

	ws := api.cfg.Workers
	workers := map[string]interface{}{
		"contract": map[string]interface{}{"enabled": true},
		"files":    map[string]interface{}{"enabled": ws.Files.Enabled, "base_path": ws.Files.BasePath},
		"batch":    map[string]interface{}{"enabled": ws.Batch.Enabled, "max_parallel": ws.Batch.MaxParallel},
		"web":      map[string]interface{}{"enabled": ws.Web.Enabled},
		"minio":    map[string]interface{}{"enabled": ws.MinIO.Enabled, "endpoint": ws.MinIO.Endpoint},
	}
	writeJSON(w, workers)
}

func (api *ConfigAPI) getWorkerConfig(w http.ResponseWriter, r *http.Request) {
	api.mu.RLock()
	defer api.mu.RUnlock()

	worker := mux.Vars(r)["worker"]
	var workerCfg interface{}

	switch worker {
	case "files":
		workerCfg = api.cfg.Workers.Files
	case "batch":
		workerCfg = api.cfg.Workers.Batch
	case "web":
		workerCfg = api.cfg.Workers.Web
	case "minio":
		workerCfg = api.safeConfigCopy().Workers.MinIO
	default:
		http.Error(w, fmt.Sprintf("unknown worker: %s", worker), http.StatusNotFound)
		return
	}
	writeJSON(w, workerCfg)
}

func (api *ConfigAPI) safeConfigCopy() *Config {
	copyCfg := *api.cfg
	copyCfg.Auth.ExemptPaths = append([]string(nil), api.cfg.Auth.ExemptPaths...)
	if copyCfg.Workers.MinIO.AccessKey != "" {
		copyCfg.Workers.MinIO.AccessKey = redacted
	}
	if copyCfg.Workers.MinIO.SecretKey != "" {
		copyCfg.Workers.MinIO.SecretKey = redacted
	}
	if copyCfg.Auth.Token != "" {
		copyCfg.Auth.Token = redacted
	}
	return &copyCfg
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
