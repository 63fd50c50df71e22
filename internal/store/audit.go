package store

import (
	"context"
	"fmt"

	"github.com/soyeahso/octomcp/internal/logging"
)

// Invocation is one audited tool call.
type Invocation struct {
	ID         string
	Tool       string
	OK         bool
	ErrorKind  string
	Status     int
	DurationMS int64
	CreatedAt  string
}

// AuditLog records tool invocations in an append-only table. Payloads are
// never stored, only the outcome.
type AuditLog struct {
	db  *DB
	log *logging.Logger
}

// NewAuditLog creates an audit log over an open database.
func NewAuditLog(db *DB, log *logging.Logger) *AuditLog {
	return &AuditLog{db: db, log: log.Sub("audit")}
}

// Record appends one invocation.
func (a *AuditLog) Record(ctx context.Context, inv Invocation) error {
	_, err := a.db.SQL().ExecContext(ctx, `
		INSERT INTO invocations (id, tool, ok, error_kind, status, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.Tool, boolToInt(inv.OK), inv.ErrorKind, inv.Status, inv.DurationMS)
	if err != nil {
		return fmt.Errorf("recording invocation: %w", err)
	}
	return nil
}

// Recent returns the most recent invocations, newest first.
func (a *AuditLog) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.SQL().QueryContext(ctx, `
		SELECT id, tool, ok, error_kind, status, duration_ms, created_at
		FROM invocations
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var ok int
		if err := rows.Scan(&inv.ID, &inv.Tool, &ok, &inv.ErrorKind, &inv.Status, &inv.DurationMS, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning invocation: %w", err)
		}
		inv.OK = ok != 0
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountByTool returns per-tool invocation counts.
func (a *AuditLog) CountByTool(ctx context.Context) (map[string]int, error) {
	rows, err := a.db.SQL().QueryContext(ctx, `
		SELECT tool, COUNT(*) FROM invocations GROUP BY tool
	`)
	if err != nil {
		return nil, fmt.Errorf("counting invocations: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var tool string
		var n int
		if err := rows.Scan(&tool, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out[tool] = n
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
