package stores

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
)

// ErrSessionLimit is returned when the store already holds the maximum
// number of live sessions
var ErrSessionLimit = errors.New("editing session limit reached")

// DocumentMeta identifies the stored document an editing session writes to
type DocumentMeta struct {
	DocumentID string `json:"documentId,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Title      string `json:"title,omitempty"`
}

// EditorSession is one live editing session. Its tree store is only reached
// through Do, which serialises access.
type EditorSession struct {
	ID      string
	Created time.Time

	mu           sync.Mutex
	store        *treestore.Store
	meta         DocumentMeta
	lastActivity time.Time
}

// NewEditorSession wraps store in a session
func NewEditorSession(id string, store *treestore.Store, meta DocumentMeta) *EditorSession {
	now := time.Now().UTC()
	return &EditorSession{
		ID:           id,
		Created:      now,
		store:        store,
		meta:         meta,
		lastActivity: now,
	}
}

// Do runs fn with exclusive access to the session's tree and document
// metadata, and marks the session active
func (s *EditorSession) Do(fn func(store *treestore.Store, meta *DocumentMeta) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now().UTC()
	return fn(s.store, &s.meta)
}

// Meta returns a copy of the document metadata
func (s *EditorSession) Meta() DocumentMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// LastActivity returns the time of the most recent Do call
func (s *EditorSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *EditorSession) idleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivity())
}

// SessionStore keeps live editing sessions in memory
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*EditorSession
	maxSessions int
	logger      *logging.ChanneledLogger
}

// NewSessionStore creates a session store; maxSessions of zero or less is
// unbounded
func NewSessionStore(maxSessions int, logger *logging.ChanneledLogger) *SessionStore {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	logger.Cache().Info("Initializing editor session store", "maxSessions", maxSessions)
	return &SessionStore{
		sessions:    make(map[string]*EditorSession),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Add registers a session
func (ss *SessionStore) Add(session *EditorSession) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, exists := ss.sessions[session.ID]; !exists && ss.maxSessions > 0 && len(ss.sessions) >= ss.maxSessions {
		ss.logger.Cache().Warn("Session limit reached", "maxSessions", ss.maxSessions)
		return ErrSessionLimit
	}
	ss.sessions[session.ID] = session
	ss.logger.Cache().Debug("Session added", "sessionId", session.ID, "count", len(ss.sessions))
	return nil
}

// Get returns the session with the given id
func (ss *SessionStore) Get(id string) (*EditorSession, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	session, ok := ss.sessions[id]
	return session, ok
}

// Remove drops a session and reports whether it existed
func (ss *SessionStore) Remove(id string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[id]; !ok {
		return false
	}
	delete(ss.sessions, id)
	ss.logger.Cache().Debug("Session removed", "sessionId", id, "count", len(ss.sessions))
	return true
}

// IDs returns the ids of all live sessions, sorted
func (ss *SessionStore) IDs() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	ids := make([]string, 0, len(ss.sessions))
	for id := range ss.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// PurgeIdle removes sessions idle for longer than idle and returns their ids
func (ss *SessionStore) PurgeIdle(idle time.Duration, now time.Time) []string {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var purged []string
	for id, session := range ss.sessions {
		if session.idleSince(now) > idle {
			delete(ss.sessions, id)
			purged = append(purged, id)
		}
	}
	sort.Strings(purged)
	return purged
}
