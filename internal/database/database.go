package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// New opens the sqlite database behind the document store. Collections
// create their own tables on first use, so there is no migration step
// here.
func New(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
