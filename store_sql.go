/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS kniffel_session (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    last_active BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kniffel_session_last_active ON kniffel_session(last_active);
`

var placeholder = regexp.MustCompile(`\$\d+`)

// sqlStore keeps sessions in a relational table. Queries are written with
// postgres placeholders, and arguments are always passed in order.
type sqlStore struct {
	db          *sql.DB
	driver      string
	idleTimeout time.Duration

	done chan struct{}
	once sync.Once
}

func newSQLStore(driver, dsn string, idleTimeout time.Duration) (*sqlStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to reach %s database: %w", driver, err)
	}

	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &sqlStore{
		db:          db,
		driver:      driver,
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}

	if idleTimeout > 0 {
		go s.reaperLoop()
	}

	return s, nil
}

func (s *sqlStore) query(q string) string {
	if s.driver == "sqlite" {
		return placeholder.ReplaceAllString(q, "?")
	}

	return q
}

func (s *sqlStore) Get(ctx context.Context, id string) (State, error) {
	var raw string

	err := s.db.QueryRowContext(ctx, s.query(`SELECT state FROM kniffel_session WHERE id = $1`), id).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return State{}, nil
	case err != nil:
		return State{}, fmt.Errorf("failed to load session: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("failed to decode session: %w", err)
	}

	return st, nil
}

func (s *sqlStore) Set(ctx context.Context, id string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.query(`
		INSERT INTO kniffel_session (id, state, last_active) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state, last_active = excluded.last_active`),
		id, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *sqlStore) Close() error {
	s.once.Do(func() { close(s.done) })

	return s.db.Close()
}

func (s *sqlStore) reap(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.query(`DELETE FROM kniffel_session WHERE last_active < $1`), cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}

	return res.RowsAffected()
}

func (s *sqlStore) reaperLoop() {
	ticker := time.NewTicker(s.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_, _ = s.reap(context.Background(), time.Now().Add(-s.idleTimeout))
		}
	}
}
