package checkpoint

import (
	"context"
	"database/sql"
	"time"

	// registers the "postgres" sql.DB driver.
	_ "github.com/lib/pq"

	"github.com/rs/zerolog/log"
)

// PQStore is a lib/pq-backed Postgres KVStore for multi-process
// deployments, satisfying the "process-wide, not a singleton" design note
// by taking an already-opened *sql.DB at construction rather than dialing
// one itself.
//
// Expected schema:
//
//	CREATE TABLE dagcore_checkpoints (
//	    key    TEXT PRIMARY KEY,
//	    value  BYTEA NOT NULL,
//	    ttl_at TIMESTAMPTZ NOT NULL
//	);
type PQStore struct {
	db *sql.DB
}

// NewPQStore wraps an already-opened Postgres *sql.DB. The caller owns the
// connection pool's lifecycle.
func NewPQStore(db *sql.DB) *PQStore {
	return &PQStore{db: db}
}

func (s *PQStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dagcore_checkpoints (key, value, ttl_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, ttl_at = EXCLUDED.ttl_at
	`, key, value, time.Now().Add(ttl))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: pqstore put failed")
		return ErrCheckpointStoreUnavailable
	}
	return nil
}

func (s *PQStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var ttlAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT value, ttl_at FROM dagcore_checkpoints WHERE key = $1
	`, key).Scan(&value, &ttlAt)
	if err == sql.ErrNoRows {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: pqstore get failed")
		return nil, ErrCheckpointStoreUnavailable
	}
	if time.Now().After(ttlAt) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM dagcore_checkpoints WHERE key = $1`, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("checkpoint: pqstore expired-entry cleanup failed")
		}
		return nil, ErrCheckpointExpired
	}
	return value, nil
}

func (s *PQStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dagcore_checkpoints WHERE key = $1`, key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("checkpoint: pqstore delete failed")
		return ErrCheckpointStoreUnavailable
	}
	return nil
}
