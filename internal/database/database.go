package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite database at path, tunes the pool and applies
// any pending migrations.
func Open(path string) (db *sql.DB, err error) {
	// The DSN option applies to every pooled connection; a plain
	// PRAGMA would only reach the one connection that ran it.
	db, err = sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}
