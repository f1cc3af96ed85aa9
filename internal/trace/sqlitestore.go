package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog/log"
)

// schema matches the logical Trace row layout and the (priority DESC,
// executed_at DESC) replay-queue index from the external interfaces.
const schema = `
CREATE TABLE IF NOT EXISTS dagcore_traces (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	intent_text   TEXT NOT NULL,
	executed_path TEXT NOT NULL,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	duration_ms   INTEGER NOT NULL,
	priority      REAL NOT NULL,
	predicted     REAL NOT NULL,
	actual        REAL NOT NULL,
	is_cold_start INTEGER NOT NULL,
	executed_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS dagcore_traces_priority_idx
	ON dagcore_traces (priority DESC, executed_at DESC, id ASC);
`

// SQLiteStore is a modernc.org/sqlite-backed Store: pure Go, no cgo, so the
// module stays easy to cross-compile.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) a sqlite database at path
// and ensures the trace schema exists. Pass ":memory:" for an ephemeral,
// in-process database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("trace: open sqlite failed")
		return nil, fmt.Errorf("trace: open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		log.Error().Err(err).Str("path", path).Msg("trace: migrate schema failed")
		return nil, fmt.Errorf("trace: migrate schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("trace: sqlite store opened")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) InsertTrace(ctx context.Context, t Trace) (int64, error) {
	path, err := json.Marshal(t.ExecutedPath)
	if err != nil {
		log.Error().Err(err).Msg("trace: marshal executed path failed")
		return 0, fmt.Errorf("trace: marshal executed path: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO dagcore_traces
			(intent_text, executed_path, success, error_message, duration_ms, priority, predicted, actual, is_cold_start, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.IntentText, string(path), boolToInt(t.Success), t.ErrorMessage, t.DurationMs,
		t.Priority, t.Predicted, t.Actual, boolToInt(t.IsColdStart), t.ExecutedAt.Unix(),
	)
	if err != nil {
		log.Error().Err(err).Str("intentText", t.IntentText).Msg("trace: insert failed")
		return 0, fmt.Errorf("trace: insert: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) HighPriorityTraces(ctx context.Context, limit int) ([]Trace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, intent_text, executed_path, success, error_message, duration_ms,
		       priority, predicted, actual, is_cold_start, executed_at
		FROM dagcore_traces
		ORDER BY priority DESC, executed_at DESC, id ASC
		LIMIT ?
	`, sqlLimit(limit))
	if err != nil {
		log.Error().Err(err).Int("limit", limit).Msg("trace: query failed")
		return nil, fmt.Errorf("trace: query: %w", err)
	}
	defer rows.Close()

	var out []Trace
	for rows.Next() {
		var (
			t          Trace
			path       string
			success    int
			coldStart  int
			executedAt int64
		)
		if err := rows.Scan(&t.ID, &t.IntentText, &path, &success, &t.ErrorMessage, &t.DurationMs,
			&t.Priority, &t.Predicted, &t.Actual, &coldStart, &executedAt); err != nil {
			return nil, fmt.Errorf("trace: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &t.ExecutedPath); err != nil {
			return nil, fmt.Errorf("trace: unmarshal executed path: %w", err)
		}
		t.Success = success != 0
		t.IsColdStart = coldStart != 0
		t.ExecutedAt = time.Unix(executedAt, 0).UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sqlLimit treats a negative limit as "no limit" the way SQLite's LIMIT -1
// already does, so callers can pass HighPriorityTraces(ctx, -1) uniformly
// across backends.
func sqlLimit(limit int) int {
	if limit < 0 {
		return -1
	}
	return limit
}
