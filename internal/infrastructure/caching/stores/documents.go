// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
)

type documentEntry struct {
	doc      *content.PageDocument
	cachedAt time.Time
}

// DocumentStore caches stored page documents by id with a TTL. Callers
// always receive copies.
type DocumentStore struct {
	mu       sync.RWMutex
	docs     map[string]*documentEntry
	slugToID map[string]string
	allIDs   []string
	allAt    time.Time
	hasAll   bool
	ttl      time.Duration
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewDocumentStore creates a document cache; a ttl of zero never expires
func NewDocumentStore(ttl time.Duration, logger *logging.ChanneledLogger) *DocumentStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	logger.Cache().Info("Initializing document cache store", "ttl", ttl)
	return &DocumentStore{
		docs:     make(map[string]*documentEntry),
		slugToID: make(map[string]string),
		ttl:      ttl,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *DocumentStore) expired(at time.Time) bool {
	return s.ttl > 0 && s.now().Sub(at) > s.ttl
}

// Get returns the cached document with the given id
func (s *DocumentStore) Get(id string) (*content.PageDocument, bool) {
	start := time.Now()
	s.mu.RLock()
	entry, ok := s.docs[id]
	s.mu.RUnlock()

	hit := ok && !s.expired(entry.cachedAt)
	s.logger.LogCacheOperation("get", "document:"+id, hit, time.Since(start))
	if !hit {
		return nil, false
	}
	return entry.doc.Clone(), true
}

// GetBySlug returns the cached document with the given slug
func (s *DocumentStore) GetBySlug(slug string) (*content.PageDocument, bool) {
	s.mu.RLock()
	id, ok := s.slugToID[slug]
	s.mu.RUnlock()
	if !ok {
		s.logger.LogCacheOperation("get", "slug:"+slug, false, 0)
		return nil, false
	}
	return s.Get(id)
}

// Set stores a copy of doc, replacing any previous slug mapping for it.
// The master list is title ordered, so a new id or a title change that
// cannot be ruled out drops it.
func (s *DocumentStore) Set(doc *content.PageDocument) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, cached := s.docs[doc.ID]
	if cached && prev.doc.Slug != doc.Slug {
		delete(s.slugToID, prev.doc.Slug)
	}
	if s.hasAll && (!contains(s.allIDs, doc.ID) || !cached || prev.doc.Title != doc.Title) {
		s.hasAll = false
		s.allIDs = nil
	}
	s.docs[doc.ID] = &documentEntry{doc: doc.Clone(), cachedAt: s.now()}
	if doc.Slug != "" {
		s.slugToID[doc.Slug] = doc.ID
	}
}

// GetAllIDs returns the cached master list of document ids
func (s *DocumentStore) GetAllIDs() ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasAll || s.expired(s.allAt) {
		return nil, false
	}
	return append([]string(nil), s.allIDs...), true
}

// SetAllIDs caches the master list of document ids
func (s *DocumentStore) SetAllIDs(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allIDs = append([]string(nil), ids...)
	s.allAt = s.now()
	s.hasAll = true
}

// Invalidate drops one document and the master list
func (s *DocumentStore) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.docs[id]; ok {
		delete(s.slugToID, entry.doc.Slug)
		delete(s.docs, id)
	}
	s.hasAll = false
	s.allIDs = nil
}

// InvalidateAll empties the cache
func (s *DocumentStore) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*documentEntry)
	s.slugToID = make(map[string]string)
	s.hasAll = false
	s.allIDs = nil
}

// PurgeExpired removes expired entries and returns how many were dropped
func (s *DocumentStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, entry := range s.docs {
		if s.expired(entry.cachedAt) {
			delete(s.slugToID, entry.doc.Slug)
			delete(s.docs, id)
			purged++
		}
	}
	if s.hasAll && s.expired(s.allAt) {
		s.hasAll = false
		s.allIDs = nil
		purged++
	}
	return purged
}

// Len returns the number of cached documents, expired ones included
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
