package persistence

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgreSQLDB opens a PostgreSQL pool for dsn and verifies it with a
// ping.
func NewPostgreSQLDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
