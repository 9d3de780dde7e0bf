package stores

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDocumentStore(ttl time.Duration) (*DocumentStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewDocumentStore(ttl, nil)
	s.now = clock.now
	return s, clock
}

func doc(id, slug string) *content.PageDocument {
	return &content.PageDocument{ID: id, Slug: slug, Title: id, Version: 2, Body: json.RawMessage(`{"version":2}`)}
}

func TestDocumentStoreGetSet(t *testing.T) {
	s, _ := newTestDocumentStore(time.Hour)

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set(doc("a", "home"))
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "home", got.Slug)

	bySlug, ok := s.GetBySlug("home")
	require.True(t, ok)
	assert.Equal(t, "a", bySlug.ID)
}

func TestDocumentStoreReturnsCopies(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	original := doc("a", "home")
	s.Set(original)
	original.Title = "mutated"

	got, _ := s.Get("a")
	got.Body[0] = 'X'
	again, _ := s.Get("a")

	assert.Equal(t, "a", again.Title)
	assert.Equal(t, byte('{'), again.Body[0])
}

func TestDocumentStoreSlugChange(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	s.Set(doc("a", "old"))
	s.Set(doc("a", "new"))

	_, ok := s.GetBySlug("old")
	assert.False(t, ok)
	_, ok = s.GetBySlug("new")
	assert.True(t, ok)
}

func TestDocumentStoreExpiry(t *testing.T) {
	s, clock := newTestDocumentStore(time.Minute)
	s.Set(doc("a", "home"))
	s.SetAllIDs([]string{"a"})

	clock.advance(2 * time.Minute)
	_, ok := s.Get("a")
	assert.False(t, ok)
	_, ok = s.GetAllIDs()
	assert.False(t, ok)

	assert.Equal(t, 2, s.PurgeExpired())
	assert.Equal(t, 0, s.Len())
}

func TestDocumentStoreAllIDs(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	s.SetAllIDs([]string{"a", "b"})

	ids, ok := s.GetAllIDs()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	// a new id makes the master list stale
	s.Set(doc("c", "third"))
	_, ok = s.GetAllIDs()
	assert.False(t, ok)

	s.SetAllIDs([]string{"a", "b", "c"})
	s.Invalidate("c")
	_, ok = s.GetAllIDs()
	assert.False(t, ok)
	_, ok = s.GetBySlug("third")
	assert.False(t, ok)
}

func TestDocumentStoreAllIDsTitleChange(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	s.Set(doc("a", "home"))
	s.Set(doc("b", "about"))
	s.SetAllIDs([]string{"a", "b"})

	// same title keeps the list
	s.Set(doc("a", "home-renamed"))
	ids, ok := s.GetAllIDs()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ids)

	retitled := doc("a", "home")
	retitled.Title = "zebra"
	s.Set(retitled)
	_, ok = s.GetAllIDs()
	assert.False(t, ok)
}

func TestDocumentStoreAllIDsUncachedEntry(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	s.SetAllIDs([]string{"a"})

	s.Set(doc("a", "home"))
	_, ok := s.GetAllIDs()
	assert.False(t, ok)
}

func TestDocumentStoreInvalidateAll(t *testing.T) {
	s, _ := newTestDocumentStore(0)
	s.Set(doc("a", "home"))
	s.Set(doc("b", "about"))
	s.InvalidateAll()
	assert.Equal(t, 0, s.Len())
}
