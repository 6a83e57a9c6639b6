// Package audit records every tool call and analysis request in a sqlite table.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS audit_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tool TEXT NOT NULL,
	input TEXT,
	output TEXT,
	error TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Auditor writes audit entries. A zero Auditor discards everything.
type Auditor struct {
	db *sql.DB
}

type AuditEntry struct {
	ID        int64     `json:"id"`
	Tool      string    `json:"tool"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Open opens (creating if needed) the sqlite database at path.
// ":memory:" keeps the log in process memory.
func Open(path string) (*Auditor, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create audit dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit DB: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit table: %w", err)
	}
	return &Auditor{db: db}, nil
}

// NewAuditor is Open that degrades to a no-op auditor on failure.
func NewAuditor(path string) *Auditor {
	a, err := Open(path)
	if err != nil {
		slog.Warn("audit log disabled", "path", path, "error", err)
		return &Auditor{}
	}
	return a
}

// Enabled reports whether entries are persisted.
func (a *Auditor) Enabled() bool {
	return a != nil && a.db != nil
}

func (a *Auditor) Log(tool string, input json.RawMessage, output []byte, err error) {
	if !a.Enabled() {
		return
	}
	var errStr string
	if err != nil {
		errStr = err.Error()
	}
	_, err = a.db.Exec(
		"INSERT INTO audit_log (tool, input, output, error) VALUES (?, ?, ?, ?)",
		tool, string(input), string(output), errStr,
	)
	if err != nil {
		slog.Error("failed to write audit log", "tool", tool, "error", err)
	}
}

// GetLogs returns the newest entries first.
func (a *Auditor) GetLogs(limit int) ([]AuditEntry, error) {
	if !a.Enabled() {
		return nil, nil
	}
	rows, err := a.db.Query("SELECT id, tool, input, output, error, timestamp FROM audit_log ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var input, output, errStr sql.NullString
		if err := rows.Scan(&e.ID, &e.Tool, &input, &output, &errStr, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		e.Input, e.Output, e.Error = input.String, output.String, errStr.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (a *Auditor) Close() {
	if a.Enabled() {
		a.db.Close()
	}
}
