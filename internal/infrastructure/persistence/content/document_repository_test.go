package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	tables "github.com/AtRiskMedia/pagetree-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*DocumentRepository, *sql.DB, *stores.DocumentStore) {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, tables.NewTableCreator().CreateSchema(db))

	cache := stores.NewDocumentStore(time.Hour, nil)
	return NewDocumentRepository(db, cache, logging.NewDiscardLogger()), db, cache
}

func pageDoc(id, slug, title string) *content.PageDocument {
	return &content.PageDocument{ID: id, Slug: slug, Title: title, Version: 2, Body: json.RawMessage(`{"version":2,"nodes":[]}`)}
}

func TestSaveAndFind(t *testing.T) {
	repo, _, cache := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, pageDoc("d1", "home", "Home")))
	cache.InvalidateAll()

	got, err := repo.FindByID(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "home", got.Slug)
	assert.JSONEq(t, `{"version":2,"nodes":[]}`, string(got.Body))
	assert.False(t, got.Created.IsZero())
	require.NotNil(t, got.Changed)

	bySlug, err := repo.FindBySlug(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "d1", bySlug.ID)
}

func TestFindMissingReturnsNil(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	got, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveIsUpsertLastWriteWins(t *testing.T) {
	repo, db, cache := newTestRepository(t)
	ctx := context.Background()

	first := pageDoc("d1", "home", "Home")
	require.NoError(t, repo.Save(ctx, first))
	created := first.Created

	second := pageDoc("d1", "landing", "Landing")
	require.NoError(t, repo.Save(ctx, second))
	cache.InvalidateAll()

	got, err := repo.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Landing", got.Title)
	assert.Equal(t, "landing", got.Slug)
	assert.WithinDuration(t, created, got.Created, time.Second)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM page_documents`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaveRejectsTakenSlug(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, pageDoc("d1", "home", "Home")))

	err := repo.Save(ctx, pageDoc("d2", "home", "Other"))
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestFindAllOrderedAndCached(t *testing.T) {
	repo, db, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, pageDoc("d1", "b", "Beta")))
	require.NoError(t, repo.Save(ctx, pageDoc("d2", "a", "Alpha")))

	docs, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Alpha", docs[0].Title)

	// served from cache once the master list is known
	_, err = db.Exec(`DELETE FROM page_documents`)
	require.NoError(t, err)
	docs, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDelete(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, pageDoc("d1", "home", "Home")))

	require.NoError(t, repo.Delete(ctx, "d1"))
	got, err := repo.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Delete(ctx, "d1"))
}

func TestSaveRequiresID(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	assert.Error(t, repo.Save(context.Background(), &content.PageDocument{}))
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{
		"2026-01-02T03:04:05Z",
		"2026-01-02 03:04:05.123456789+00:00",
		"2026-01-02 03:04:05",
	} {
		got, ok := parseTimestamp(s)
		assert.True(t, ok, s)
		assert.Equal(t, 2026, got.Year(), s)
	}
	_, ok := parseTimestamp("yesterday")
	assert.False(t, ok)
}
