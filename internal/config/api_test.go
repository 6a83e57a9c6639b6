package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*ConfigAPI, *Config) {
	t.Helper()
	cfg := Default()
	cfg.Auth.Token = "secret-token"
	cfg.Workers.MinIO.SecretKey = "minio-secret"
	return NewConfigAPI(cfg), cfg
}

func do(api *ConfigAPI, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.Router().ServeHTTP(w, req)
	return w
}

func TestGetConfigRedactsSecrets(t *testing.T) {
	api, cfg := newTestAPI(t)
	w := do(api, http.MethodGet, "/configure", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, redacted, got.Auth.Token)
	assert.Equal(t, redacted, got.Workers.MinIO.SecretKey)
	assert.Equal(t, "secret-token", cfg.Auth.Token)
}

func TestGetExtraction(t *testing.T) {
	api, _ := newTestAPI(t)
	w := do(api, http.MethodGet, "/configure/extraction", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p lex.Policy
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, lex.DefaultPolicy(), p)
}

func TestValidateEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)

	good, err := json.Marshal(Default())
	require.NoError(t, err)
	w := do(api, http.MethodPost, "/configure/validate", good)
	assert.Equal(t, http.StatusOK, w.Code)

	bad := Default()
	bad.Extraction.LateFeeWindowChars = 0
	body, err := json.Marshal(bad)
	require.NoError(t, err)
	w = do(api, http.MethodPost, "/configure/validate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(api, http.MethodPost, "/configure/validate", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateConfigNotifies(t *testing.T) {
	api, cfg := newTestAPI(t)
	var seen *Config
	api.OnChange(func(c *Config) { seen = c })

	next := Default()
	next.Extraction.PartyMinPersonWords = 1
	body, err := json.Marshal(next)
	require.NoError(t, err)

	w := do(api, http.MethodPost, "/configure", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, 1, seen.Policy().PartyMinPersonWords)
	assert.Equal(t, 1, cfg.Extraction.PartyMinPersonWords)
}

func TestUpdateConfigAuth(t *testing.T) {
	api, _ := newTestAPI(t)
	assert.False(t, api.Auth().Enabled)

	next := Default()
	next.Auth = AuthConfig{Enabled: true, Token: "rotated", ExemptPaths: []string{"/health"}}
	body, err := json.Marshal(next)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, do(api, http.MethodPost, "/configure", body).Code)

	auth := api.Auth()
	assert.True(t, auth.Enabled)
	assert.Equal(t, "rotated", auth.Token)
	assert.Equal(t, []string{"/health"}, auth.ExemptPaths)
}

func TestUpdateConfigKeepsRedactedSecrets(t *testing.T) {
	api, cfg := newTestAPI(t)

	// Echo the redacted GET body straight back.
	w := do(api, http.MethodGet, "/configure", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(api, http.MethodPost, "/configure", w.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "secret-token", cfg.Auth.Token)
	assert.Equal(t, "minio-secret", cfg.Workers.MinIO.SecretKey)
}

func TestReloadConfig(t *testing.T) {
	api, cfg := newTestAPI(t)
	api.SetReloader(func() (*Config, error) {
		c := Default()
		c.Server.Addr = ":7070"
		return c, nil
	})
	w := do(api, http.MethodPost, "/configure/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ":7070", cfg.Server.Addr)

	api.SetReloader(func() (*Config, error) { return nil, errors.New("boom") })
	w = do(api, http.MethodPost, "/configure/reload", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWorkerConfig(t *testing.T) {
	api, _ := newTestAPI(t)

	w := do(api, http.MethodGet, "/configure/workers/minio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var m MinIOConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, redacted, m.SecretKey)

	w = do(api, http.MethodGet, "/configure/workers/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(api, http.MethodGet, "/configure/workers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"batch"`)
}
