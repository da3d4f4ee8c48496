package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN names a shared-cache in-memory database. Every handle opened on
// the same name sees the same data until the last one closes.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000", name)
}

// OpenMemory opens the in-memory database called name. The data lives exactly
// as long as the returned handle, so the pool is pinned to one connection that
// is never recycled.
func OpenMemory(name string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", MemoryDSN(name))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", name, err)
	}
	return db, nil
}

// Open creates the in-memory database called name and applies the schema.
func Open(name string) (*sql.DB, error) {
	db, err := OpenMemory(name)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(MemoryDSN(name)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: migrate: %w", err)
	}
	return db, nil
}

// WithTx runs fn in a transaction.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
