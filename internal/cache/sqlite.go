// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore persists cache entries in a SQLite database so results
// survive process restarts. Concurrent writes to the same key are
// last-write-wins; cached values for a given key are semantically
// equivalent, so no locking beyond SQLite's own is needed.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteStore opens or creates the cache database at path and creates
// the schema if it does not exist.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		role       TEXT NOT NULL,
		input_hash TEXT NOT NULL,
		payload    BLOB NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		PRIMARY KEY (role, input_hash)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached payload for (role, key), or a miss when the entry
// is absent, expired, or unreadable. Expired rows are deleted on the way out.
func (s *SQLiteStore) Get(ctx context.Context, role Role, key string) ([]byte, bool) {
	query, args, err := sq.Select("payload", "expires_at").
		From("results").
		Where(sq.Eq{"role": string(role), "input_hash": key}).
		ToSql()
	if err != nil {
		s.logger.Error("building cache query", zap.Error(err))
		return nil, false
	}

	var payload []byte
	var expiresAt time.Time
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.Error("reading cache entry", zap.String("role", string(role)), zap.Error(err))
		return nil, false
	}

	if s.now().After(expiresAt) {
		s.delete(ctx, role, key)
		return nil, false
	}
	return payload, true
}

// Put upserts the payload under (role, key) with expiry now+ttl. A second
// Put with the same key overwrites the value and extends the expiry.
func (s *SQLiteStore) Put(ctx context.Context, role Role, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	query, args, err := sq.Insert("results").
		Columns("role", "input_hash", "payload", "expires_at").
		Values(string(role), key, value, s.now().Add(ttl)).
		Suffix("ON CONFLICT (role, input_hash) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at").
		ToSql()
	if err != nil {
		s.logger.Error("building cache upsert", zap.Error(err))
		return
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("writing cache entry", zap.String("role", string(role)), zap.Error(err))
	}
}

// Clear removes every entry. Administrative operation, exposed through the CLI.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	query, args, err := sq.Delete("results").ToSql()
	if err != nil {
		return fmt.Errorf("building cache clear: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, role Role, key string) {
	query, args, err := sq.Delete("results").
		Where(sq.Eq{"role": string(role), "input_hash": key}).
		ToSql()
	if err != nil {
		s.logger.Error("building cache delete", zap.Error(err))
		return
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("deleting expired cache entry", zap.Error(err))
	}
}
