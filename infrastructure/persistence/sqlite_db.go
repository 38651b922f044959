package persistence

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens a SQLite database at path, which may also be a
// "file:...?mode=memory" URI. The pool holds one connection: the collector
// is a single writer.
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
