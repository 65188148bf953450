package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/live"
	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
)

// slowCycleRepo serves the first list call immediately and parks the second
// until released, so a test can hold a re-query delivery in flight.
type slowCycleRepo struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (r *slowCycleRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input repos.CycleInput) (*domain.CycleRecord, error) {
	return nil, nil
}

func (r *slowCycleRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error) {
	r.mu.Lock()
	r.calls++
	call := r.calls
	r.mu.Unlock()
	if call == 2 {
		close(r.entered)
		<-r.release
	}
	return []*domain.CycleRecord{}, nil
}

// A delivery already past its cancellation check must not bring the process
// down when the stream is torn down underneath it.
func TestLiveQuerySurvivesTeardownMidDelivery(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	t.Cleanup(log.Sync)

	feed := live.NewFeed(log)
	repo := &slowCycleRepo{entered: make(chan struct{}), release: make(chan struct{})}
	queries := live.NewQueries(feed, repo, nil, nil, nil, nil)
	hub := realtime.NewHub(log)
	h := NewRealtimeHandler(log, hub, queries)

	ownerID := uuid.New()
	client := hub.NewClient(ownerID)

	cancel, err := h.startLiveQuery(client, ownerID, realtime.CollectionCycles, 10)
	require.NoError(t, err)

	// Drain the synchronous initial snapshot.
	select {
	case <-client.Outbound:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for initial snapshot")
	}

	// Trigger a re-query and hold it mid-flight.
	feed.Dispatch(realtime.Message{Channel: realtime.ChannelFor(realtime.CollectionCycles, ownerID)})
	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for re-query to start")
	}

	// Tear down while the delivery is in flight, then let it finish. The
	// late push must buffer or drop, never panic.
	cancel()
	hub.CloseClient(client)
	close(repo.release)

	time.Sleep(50 * time.Millisecond)
}
