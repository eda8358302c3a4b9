package db

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection. Collections are stored wholesale as JSON
// documents in a single key-value table; the store layer owns their shape.
type DB struct {
	*sql.DB
}

// Open creates a database connection at path and initializes the schema
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn}, nil
}

// Get retrieves the raw document stored under key, or nil if absent
func (db *DB) Get(key string) ([]byte, error) {
	var value []byte
	err := db.QueryRow("SELECT value FROM collections WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return value, err
}

// Put stores value under key, replacing any previous document
func (db *DB) Put(key string, value []byte) error {
	_, err := db.Exec(`
		INSERT INTO collections (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Delete removes the document stored under key; absent keys are a no-op
func (db *DB) Delete(key string) error {
	_, err := db.Exec("DELETE FROM collections WHERE key = ?", key)
	return err
}
