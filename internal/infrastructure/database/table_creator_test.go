package database

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	tc := NewTableCreator()

	require.NoError(t, tc.CreateSchema(db))
	require.NoError(t, tc.CreateSchema(db))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='page_documents'`).Scan(&name))
	assert.Equal(t, "page_documents", name)
}

func TestSeedInitialContent(t *testing.T) {
	db := openTestDB(t)
	tc := NewTableCreator()
	require.NoError(t, tc.CreateSchema(db))

	seed := SeedDocument{Slug: "home", Title: "Home", Version: 2, Body: []byte(`{"version":2,"timestamp":0,"rootNodeId":"","nodes":[]}`)}

	written, err := tc.SeedInitialContent(db, seed)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = tc.SeedInitialContent(db, seed)
	require.NoError(t, err)
	assert.False(t, written)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM page_documents`).Scan(&count))
	assert.Equal(t, 1, count)
}
