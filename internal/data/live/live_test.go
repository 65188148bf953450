package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
)

type memCycleRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]*domain.CycleRecord
}

func newMemCycleRepo() *memCycleRepo {
	return &memCycleRepo{rows: make(map[uuid.UUID][]*domain.CycleRecord)}
}

func (m *memCycleRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input repos.CycleInput) (*domain.CycleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record := &domain.CycleRecord{
		ID:        uuid.New(),
		UserID:    ownerID,
		StartDate: input.StartDate,
		Flow:      input.Flow,
	}
	m.rows[ownerID] = append([]*domain.CycleRecord{record}, m.rows[ownerID]...)
	return record, nil
}

func (m *memCycleRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ownerID == uuid.Nil {
		return []*domain.CycleRecord{}, nil
	}
	rows := m.rows[ownerID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]*domain.CycleRecord, len(rows))
	copy(out, rows)
	return out, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return log
}

func waitForSnapshot(t *testing.T, ch <-chan []*domain.CycleRecord, pred func([]*domain.CycleRecord) bool) []*domain.CycleRecord {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case rows := <-ch:
			if pred(rows) {
				return rows
			}
		case <-deadline:
			t.Fatal("timed out waiting for live snapshot")
		}
	}
}

func TestLiveCyclesInitialSnapshotAndRequery(t *testing.T) {
	feed := NewFeed(testLogger(t))
	cycles := newMemCycleRepo()
	queries := NewQueries(feed, cycles, nil, nil, nil, nil)

	ctx := context.Background()
	ownerID := uuid.New()
	channel := realtime.ChannelFor(realtime.CollectionCycles, ownerID)

	ch := make(chan []*domain.CycleRecord, 8)
	cancel := queries.SubscribeCycles(ctx, ownerID, 10, func(rows []*domain.CycleRecord) {
		ch <- rows
	})
	defer cancel()

	// Initial snapshot arrives without any notification, and it is empty.
	initial := waitForSnapshot(t, ch, func([]*domain.CycleRecord) bool { return true })
	assert.Empty(t, initial)

	_, err := cycles.Create(ctx, nil, ownerID, repos.CycleInput{Flow: domain.FlowLight})
	require.NoError(t, err)
	feed.Dispatch(realtime.Message{Channel: channel, Event: realtime.EventCycleLogged})

	rows := waitForSnapshot(t, ch, func(rows []*domain.CycleRecord) bool { return len(rows) == 1 })
	assert.Equal(t, ownerID, rows[0].UserID)
}

func TestLiveCyclesScopedToOwner(t *testing.T) {
	feed := NewFeed(testLogger(t))
	cycles := newMemCycleRepo()
	queries := NewQueries(feed, cycles, nil, nil, nil, nil)

	ctx := context.Background()
	mine := uuid.New()
	theirs := uuid.New()

	ch := make(chan []*domain.CycleRecord, 8)
	cancel := queries.SubscribeCycles(ctx, mine, 10, func(rows []*domain.CycleRecord) {
		ch <- rows
	})
	defer cancel()
	waitForSnapshot(t, ch, func([]*domain.CycleRecord) bool { return true })

	// A change on another owner's channel must not reach this subscriber.
	_, err := cycles.Create(ctx, nil, theirs, repos.CycleInput{Flow: domain.FlowHeavy})
	require.NoError(t, err)
	feed.Dispatch(realtime.Message{
		Channel: realtime.ChannelFor(realtime.CollectionCycles, theirs),
		Event:   realtime.EventCycleLogged,
	})

	select {
	case rows := <-ch:
		t.Fatalf("unexpected snapshot for foreign change: %v", rows)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestLiveCancelStopsDelivery(t *testing.T) {
	feed := NewFeed(testLogger(t))
	cycles := newMemCycleRepo()
	queries := NewQueries(feed, cycles, nil, nil, nil, nil)

	ctx := context.Background()
	ownerID := uuid.New()
	channel := realtime.ChannelFor(realtime.CollectionCycles, ownerID)

	ch := make(chan []*domain.CycleRecord, 8)
	cancel := queries.SubscribeCycles(ctx, ownerID, 10, func(rows []*domain.CycleRecord) {
		ch <- rows
	})
	waitForSnapshot(t, ch, func([]*domain.CycleRecord) bool { return true })

	cancel()
	cancel() // idempotent

	feed.Dispatch(realtime.Message{Channel: channel, Event: realtime.EventCycleLogged})
	select {
	case rows := <-ch:
		t.Fatalf("snapshot delivered after cancel: %v", rows)
	case <-time.After(150 * time.Millisecond):
	}
}
