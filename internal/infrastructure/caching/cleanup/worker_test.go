package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceEvictsIdleSessions(t *testing.T) {
	sessions := stores.NewSessionStore(0, nil)
	require.NoError(t, sessions.Add(stores.NewEditorSession("s1", treestore.New(), stores.DocumentMeta{})))

	var evicted []string
	w := NewWorker(sessions, stores.NewDocumentStore(0, nil),
		&Config{CleanupInterval: time.Minute, SessionIdleTimeout: time.Hour}, nil,
		func(id string) { evicted = append(evicted, id) })

	assert.Equal(t, 0, w.RunOnce(time.Now().UTC()))
	assert.Empty(t, evicted)

	assert.Equal(t, 1, w.RunOnce(time.Now().UTC().Add(2*time.Hour)))
	assert.Equal(t, []string{"s1"}, evicted)
	assert.Equal(t, 0, sessions.Len())
}

func TestStartStopsOnCancel(t *testing.T) {
	w := NewWorker(nil, nil, &Config{CleanupInterval: time.Millisecond, SessionIdleTimeout: time.Hour}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewConfigReadsDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Positive(t, cfg.CleanupInterval)
	assert.Positive(t, cfg.SessionIdleTimeout)
}
