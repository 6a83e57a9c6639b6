package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
)

// FileWorker analyzes documents under a fixed base directory.
type FileWorker struct {
	basePath   string
	maxBytes   int64
	extensions []string
	analyzer   *lex.Analyzer
}

type FileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

func NewFileWorker(cfg config.FilesConfig, a *lex.Analyzer) *FileWorker {
	exts := make([]string, 0, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts = append(exts, strings.ToLower(e))
	}
	return &FileWorker{basePath: filepath.Clean(cfg.BasePath), maxBytes: cfg.MaxBytes, extensions: exts, analyzer: a}
}

func (w *FileWorker) GetTools() []ToolDef {
	return []ToolDef{
		{Name: "analyze_file", Description: "Analyze a contract file under the configured base path"},
		{Name: "list_files", Description: "List contract files under the configured base path"},
	}
}

func (w *FileWorker) Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error) {
	switch shortName("files", name) {
	case "analyze_file":
		return w.analyzeFile(input)
	case "list_files":
		return w.listFiles(ctx, input)
	default:
		return nil, unknownTool(name)
	}
}

func (w *FileWorker) analyzeFile(input json.RawMessage) ([]byte, error) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	if req.Path == "" {
		return nil, invalidf("path is required")
	}
	absPath, err := w.resolvePath(req.Path)
	if err != nil {
		return nil, err
	}
	if !w.allowedExt(absPath) {
		return nil, invalidf("unsupported file type: %s", filepath.Ext(absPath))
	}

	data, err := readFile(absPath, w.maxBytes)
	if err != nil {
		return nil, err
	}
	text, err := documentText(data, "", absPath)
	if err != nil {
		return nil, err
	}
	return analyzeDocument(w.analyzer, req.Path, text)
}

func (w *FileWorker) listFiles(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req struct {
		Path      string `json:"path"`
		Recursive bool   `json:"recursive"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	root, err := w.resolvePath(req.Path)
	if err != nil {
		return nil, err
	}

	files := []FileInfo{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != root && !req.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.allowedExt(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(w.basePath, path)
		files = append(files, FileInfo{Path: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return json.Marshal(map[string]any{"files": files, "count": len(files)})
}

// resolvePath maps a caller path onto the base directory, refusing anything
// that resolves outside it.
func (w *FileWorker) resolvePath(path string) (string, error) {
	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(w.basePath, path)
	}
	rel, err := filepath.Rel(w.basePath, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", invalidf("path %q is outside the base path", path)
	}
	return abs, nil
}

func (w *FileWorker) allowedExt(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

func readFile(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, invalidf("%s is a directory", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, invalidf("file exceeds %d bytes", maxBytes)
	}
	return os.ReadFile(path)
}
