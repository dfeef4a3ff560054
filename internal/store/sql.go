package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store on top of a single records table. The SQL it
// issues is shared between SQLite and PostgreSQL.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewSQLStore creates a new SQLStore with the given database connection.
// db must already have the records schema applied (see OpenSQLite and
// OpenPostgres).
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// Get returns the value stored under key, or found=false if absent.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return get(ctx, s.DB, key)
}

// Put stores value under key, replacing any previous value.
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	return put(ctx, s.DB, key, value)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return del(ctx, s.DB, key)
}

// Keys returns all keys starting with prefix, sorted.
func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return keys(ctx, s.DB, prefix)
}

// Update runs fn inside a single transaction, committing on success and
// rolling back if fn returns an error.
func (s *SQLStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// sqlTx adapts a *sql.Tx to the Tx interface.
type sqlTx struct {
	q querier
}

func (t *sqlTx) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return get(ctx, t.q, key)
}

func (t *sqlTx) Put(ctx context.Context, key string, value []byte) error {
	return put(ctx, t.q, key, value)
}

func (t *sqlTx) Delete(ctx context.Context, key string) error {
	return del(ctx, t.q, key)
}

func (t *sqlTx) Keys(ctx context.Context, prefix string) ([]string, error) {
	return keys(ctx, t.q, prefix)
}

func get(ctx context.Context, q querier, key string) ([]byte, bool, error) {
	var value []byte
	err := q.QueryRowContext(ctx,
		`SELECT value FROM records WHERE key = $1`,
		key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func put(ctx context.Context, q querier, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO records (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, q querier, key string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM records WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func keys(ctx context.Context, q querier, prefix string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT key FROM records WHERE key LIKE $1 ESCAPE '\' ORDER BY key
	`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// escapeLike escapes LIKE wildcards so a prefix such as "userReports_"
// matches the underscore literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
