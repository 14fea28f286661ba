package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// pragmas applied by the driver to every new connection.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open creates the parent directory of path and returns a note database
// handle. Note ownership relies on the users foreign key, so Open fails if
// the driver did not turn it on.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Note updates and deletes are single guarded statements; one
	// connection keeps them serialized against each other.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		db.Close()
		return nil, fmt.Errorf("check foreign keys: %w", err)
	}
	if fk != 1 {
		db.Close()
		return nil, fmt.Errorf("sqlite foreign keys are disabled")
	}

	return db, nil
}
