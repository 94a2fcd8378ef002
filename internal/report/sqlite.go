package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"hermes/internal/domain"
)

// SQLiteReporter persists usage records to a SQLite database.
type SQLiteReporter struct {
	db *sql.DB
}

// NewSQLiteReporter opens (or creates) the database at dbPath and runs
// the schema migration.
func NewSQLiteReporter(dbPath string) (*SQLiteReporter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate report db: %w", err)
	}
	return &SQLiteReporter{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			ts            TEXT NOT NULL,
			request_id    TEXT NOT NULL,
			request_text  TEXT NOT NULL,
			agent         TEXT NOT NULL,
			response_text TEXT NOT NULL,
			status        INTEGER NOT NULL,
			route_us      INTEGER NOT NULL,
			agent_us      INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (r *SQLiteReporter) Close() error {
	return r.db.Close()
}

func (r *SQLiteReporter) Report(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (ts, request_id, request_text, agent, response_text, status, route_us, agent_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.RequestID,
		rec.RequestText,
		rec.AgentName,
		rec.ResponseText,
		int(rec.StatusCode),
		rec.RouteDuration.Microseconds(),
		rec.AgentDuration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *SQLiteReporter) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ts, request_id, request_text, agent, response_text, status, route_us, agent_us
		 FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts string
		var status, routeUS, agentUS int64
		if err := rows.Scan(&ts, &rec.RequestID, &rec.RequestText, &rec.AgentName,
			&rec.ResponseText, &status, &routeUS, &agentUS); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		rec.StatusCode = domain.StatusCode(status)
		rec.RouteDuration = time.Duration(routeUS) * time.Microsecond
		rec.AgentDuration = time.Duration(agentUS) * time.Microsecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
