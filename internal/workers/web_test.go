package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWebConfig() config.WebConfig {
	return config.WebConfig{Enabled: true, Timeout: 5 * time.Second, MaxBytes: 1 << 20, UserAgent: "lexanalyzer-test"}
}

func TestHTMLToText(t *testing.T) {
	page := `<html><head><title>T</title><style>p{}</style></head><body>` +
		`<h1>Lease</h1><p>Rent is <b>$900.00</b> monthly.</p><script>x()</script>` +
		`<ul><li>One</li><li>Two</li></ul></body></html>`
	got, err := htmlToText(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Lease\nRent is $900.00 monthly.\nOne\nTwo", got)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML("text/html; charset=utf-8", ""))
	assert.False(t, isHTML("text/plain", "page.html"))
	assert.True(t, isHTML("", "page.HTM"))
	assert.False(t, isHTML("", "lease.txt"))
}

func TestWebAnalyzeURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/lease.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html><body><p>" + leaseText + "</p></body></html>"))
		case "/lease.txt":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte(leaseText))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	w := NewWebWorker(testWebConfig(), newAnalyzer())

	for _, path := range []string{"/lease.html", "/lease.txt"} {
		out, err := w.Execute(context.Background(), "web_analyze_url", args(t, FetchInput{URL: srv.URL + path}))
		require.NoError(t, err, path)
		doc := decodeDocument(t, out)
		assert.Equal(t, srv.URL+path, doc.Source)
		assert.Equal(t, lex.Lease, doc.Result.ContractType)
		assert.Equal(t, []string{"123 Main Street"}, doc.Result.ExtractedData.PropertyAddress)
	}
	assert.Equal(t, "lexanalyzer-test", gotUA)

	_, err := w.Execute(context.Background(), "analyze_url", args(t, FetchInput{URL: srv.URL + "/missing"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestWebFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>Hello</p><p>World</p>"))
	}))
	defer srv.Close()

	out, err := NewWebWorker(testWebConfig(), newAnalyzer()).Execute(context.Background(), "fetch_text", args(t, FetchInput{URL: srv.URL}))
	require.NoError(t, err)

	var resp struct {
		Text  string `json:"text"`
		Chars int    `json:"chars"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "Hello\nWorld", resp.Text)
	assert.Equal(t, 11, resp.Chars)
}

func TestWebRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	w := NewWebWorker(testWebConfig(), newAnalyzer())
	for _, u := range []string{"", "ftp://example.com/x", "/relative/path"} {
		_, err := w.Execute(context.Background(), "analyze_url", args(t, FetchInput{URL: u}))
		assert.ErrorIs(t, err, ErrInvalidInput, u)
	}

	cfg := testWebConfig()
	cfg.MaxBytes = 16
	_, err := NewWebWorker(cfg, newAnalyzer()).Execute(context.Background(), "fetch_text", args(t, FetchInput{URL: srv.URL}))
	assert.ErrorContains(t, err, "exceeds 16 bytes")
}
