// Package database creates the document store schema and its seed content
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
)

// SeedDocument is the page inserted into an empty store
type SeedDocument struct {
	Slug    string
	Title   string
	Version int
	Body    []byte
}

// TableCreator handles the creation of the document store schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes every table and index statement. All statements are
// idempotent.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent inserts seed unless a document with its slug exists.
// It reports whether a row was written.
func (tc *TableCreator) SeedInitialContent(db *sql.DB, seed SeedDocument) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM page_documents WHERE slug = ?)", seed.Slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for seed document: %w", err)
	}
	if exists {
		return false, nil
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO page_documents (id, slug, title, version, document_json, created, changed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		security.GenerateULID(), seed.Slug, seed.Title, seed.Version, string(seed.Body), now, now)
	if err != nil {
		return false, fmt.Errorf("failed to insert seed document: %w", err)
	}
	return true, nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS page_documents (id TEXT PRIMARY KEY, slug TEXT NOT NULL UNIQUE, title TEXT NOT NULL, version INTEGER NOT NULL, document_json TEXT NOT NULL, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_page_documents_changed ON page_documents(changed)`,
	`CREATE INDEX IF NOT EXISTS idx_page_documents_title ON page_documents(title)`,
}
