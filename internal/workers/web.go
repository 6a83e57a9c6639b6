package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/ericksa/lexanalyzer/internal/logger"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WebWorker fetches contracts published as web pages.
type WebWorker struct {
	httpClient *http.Client
	analyzer   *lex.Analyzer
	maxBytes   int64
	userAgent  string
}

func NewWebWorker(cfg config.WebConfig, a *lex.Analyzer) *WebWorker {
	return &WebWorker{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		analyzer:   a,
		maxBytes:   cfg.MaxBytes,
		userAgent:  cfg.UserAgent,
	}
}

func (w *WebWorker) GetTools() []ToolDef {
	return []ToolDef{
		{Name: "analyze_url", Description: "Fetch a contract from a URL and analyze it"},
		{Name: "fetch_text", Description: "Fetch a URL and return its visible text"},
	}
}

func (w *WebWorker) Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error) {
	switch shortName("web", name) {
	case "analyze_url":
		return w.analyzeURL(ctx, input)
	case "fetch_text":
		return w.fetchText(ctx, input)
	default:
		return nil, unknownTool(name)
	}
}

type FetchInput struct {
	URL string `json:"url"`
}

func (w *WebWorker) analyzeURL(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req FetchInput
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	text, err := w.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return analyzeDocument(w.analyzer, req.URL, text)
}

func (w *WebWorker) fetchText(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req FetchInput
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	text, err := w.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{"url": req.URL, "text": text, "chars": len(text)})
}

func (w *WebWorker) fetch(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", invalidf("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", invalidf("url must be an absolute http(s) URL: %q", rawURL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("User-Agent", w.userAgent)

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("failed to fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	if int64(len(body)) > w.maxBytes {
		return "", fmt.Errorf("document at %s exceeds %d bytes", rawURL, w.maxBytes)
	}
	logger.Debug(ctx, "fetched document", "url", rawURL, "bytes", len(body))

	return documentText(body, resp.Header.Get("Content-Type"), u.Path)
}

// documentText converts raw bytes to analyzable text, stripping markup from HTML.
func documentText(data []byte, contentType, name string) (string, error) {
	if isHTML(contentType, name) {
		return htmlToText(bytes.NewReader(data))
	}
	return string(data), nil
}

func isHTML(contentType, name string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && contentType != "" {
		return mt == "text/html" || mt == "application/xhtml+xml"
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Section: true, atom.Article: true, atom.Table: true, atom.Blockquote: true,
}

// htmlToText returns the visible text of an HTML document, one block per line.
func htmlToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var sb strings.Builder
	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head:
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	traverse(doc)

	return strings.TrimSpace(sb.String()), nil
}
