package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const (
	envHome    = "BACK2U_HOME" // override for tests
	dirName    = ".back2u"     // default under $HOME
	dbFilename = "back2u.db"
)

// DefaultPath returns the path of the default SQLite database file
// (~/.back2u/back2u.db), creating the directory if needed.
func DefaultPath() (string, error) {
	dir := os.Getenv(envHome)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user home: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}

// OpenSQLite opens (creating if necessary) the SQLite-backed record store
// at path and ensures the schema exists. This is the default backend: one
// database file per profile.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The store is single-profile; one connection avoids SQLITE_BUSY
	// between the fan-out transaction and concurrent reads.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewSQLStore(db), nil
}

// OpenPostgres opens a PostgreSQL-backed record store using the given DSN
// and ensures the schema exists.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return NewSQLStore(db), nil
}
