package performance

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	SlowThreshold time.Duration `json:"slowThreshold"` // Completed operations slower than this are logged
	MaxRecent     int           `json:"maxRecent"`     // Number of recent markers retained
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		SlowThreshold: 500 * time.Millisecond,
		MaxRecent:     1000,
	}
}

// Tracker aggregates markers per operation and keeps a bounded window of
// recent ones
type Tracker struct {
	config *TrackerConfig
	logger *slog.Logger
	stats  map[string]*OperationStats
	recent []Marker
	active int
	mu     sync.Mutex
}

// NewTracker creates a new performance tracker. A nil logger disables slow
// operation warnings.
func NewTracker(config *TrackerConfig, logger *slog.Logger) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		config: config,
		logger: logger,
		stats:  make(map[string]*OperationStats),
	}
}

// StartOperation creates a marker; the caller completes it, usually deferred
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()
	return &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.active--
	st, ok := t.stats[m.Operation]
	if !ok {
		st = &OperationStats{Operation: m.Operation}
		t.stats[m.Operation] = st
	}
	st.Count++
	st.TotalDuration += m.Duration
	if m.Duration > st.MaxDuration {
		st.MaxDuration = m.Duration
	}
	if !m.Success {
		st.Failures++
	}
	slow := t.config.SlowThreshold > 0 && m.Duration > t.config.SlowThreshold
	if slow {
		st.SlowCount++
	}
	t.recent = append(t.recent, *m)
	if over := len(t.recent) - t.config.MaxRecent; t.config.MaxRecent > 0 && over > 0 {
		t.recent = append([]Marker(nil), t.recent[over:]...)
	}
	t.mu.Unlock()

	if slow && t.logger != nil {
		t.logger.Warn("Slow operation",
			"operation", m.Operation,
			"sessionId", m.SessionID,
			"duration", m.Duration,
			"success", m.Success)
	}
}

// Stats returns the aggregated stats of every operation, sorted by name
func (t *Tracker) Stats() []OperationStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]OperationStats, 0, len(t.stats))
	for _, st := range t.stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// Recent returns the markers completed within the window, newest last
func (t *Tracker) Recent(within time.Duration) []Marker {
	cutoff := time.Now().Add(-within)
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Marker
	for _, m := range t.recent {
		if m.EndTime.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// ActiveOperations returns the number of started but not completed markers
func (t *Tracker) ActiveOperations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// GetOverallStats summarises the tracker for the health endpoint
func (t *Tracker) GetOverallStats() map[string]any {
	stats := t.Stats()
	total, failures := 0, 0
	for _, st := range stats {
		total += st.Count
		failures += st.Failures
	}
	return map[string]any{
		"operations":       len(stats),
		"completed":        total,
		"failures":         failures,
		"activeOperations": t.ActiveOperations(),
	}
}
