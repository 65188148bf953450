// Package live implements the push-based half of the data-access contract:
// a live query re-runs its backing list query on every change notification
// for its channel and delivers the full result set, initial snapshot
// included. The caller owns the returned cancellation handle.
package live

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
)

type CancelFunc func()

type subscription struct {
	notify chan struct{}
	done   chan struct{}
}

// Feed routes change notifications from the event bus to live queries.
// Notifications coalesce: a slow consumer re-queries current state once, not
// once per missed change, and every delivered snapshot is authoritative.
type Feed struct {
	log *logger.Logger

	mu   sync.RWMutex
	subs map[string]map[*subscription]bool
}

func NewFeed(log *logger.Logger) *Feed {
	return &Feed{
		log:  log.With("component", "LiveFeed"),
		subs: make(map[string]map[*subscription]bool),
	}
}

// Dispatch is the bus forwarder callback; one per process.
func (f *Feed) Dispatch(msg realtime.Message) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subs[msg.Channel] {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

func (f *Feed) subscribe(channel string) (*subscription, CancelFunc) {
	sub := &subscription{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	f.mu.Lock()
	set, ok := f.subs[channel]
	if !ok {
		set = make(map[*subscription]bool)
		f.subs[channel] = set
	}
	set[sub] = true
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if set, ok := f.subs[channel]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(f.subs, channel)
				}
			}
			f.mu.Unlock()
			close(sub.done)
		})
	}
	return sub, cancel
}

// run delivers the initial snapshot synchronously, then re-queries on each
// notification until the subscription is cancelled or ctx ends. Query errors
// are logged and the previous snapshot stands.
func run[T any](ctx context.Context, f *Feed, channel string, query func() ([]T, error), onChange func([]T)) CancelFunc {
	sub, cancel := f.subscribe(channel)

	deliver := func() {
		rows, err := query()
		if err != nil {
			f.log.Warn("live query failed", "channel", channel, "error", err)
			return
		}
		onChange(rows)
	}

	deliver()

	go func() {
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-sub.done:
				return
			case <-sub.notify:
				deliver()
			}
		}
	}()

	return cancel
}

// Queries exposes typed live variants of the list operations, matching their
// filter, order and limit rules exactly.
type Queries struct {
	feed         *Feed
	cycles       repos.CycleRepo
	health       repos.HealthRepo
	assessments  repos.AssessmentRepo
	medications  repos.MedicationRepo
	appointments repos.AppointmentRepo
}

func NewQueries(
	feed *Feed,
	cycles repos.CycleRepo,
	health repos.HealthRepo,
	assessments repos.AssessmentRepo,
	medications repos.MedicationRepo,
	appointments repos.AppointmentRepo,
) *Queries {
	return &Queries{
		feed:         feed,
		cycles:       cycles,
		health:       health,
		assessments:  assessments,
		medications:  medications,
		appointments: appointments,
	}
}

func (q *Queries) Feed() *Feed { return q.feed }

func (q *Queries) SubscribeCycles(ctx context.Context, ownerID uuid.UUID, limit int, onChange func([]*domain.CycleRecord)) CancelFunc {
	channel := realtime.ChannelFor(realtime.CollectionCycles, ownerID)
	return run(ctx, q.feed, channel, func() ([]*domain.CycleRecord, error) {
		return q.cycles.ListByOwner(ctx, nil, ownerID, limit)
	}, onChange)
}

func (q *Queries) SubscribeDailyHealth(ctx context.Context, ownerID uuid.UUID, sinceDays int, onChange func([]*domain.DailyHealthRecord)) CancelFunc {
	channel := realtime.ChannelFor(realtime.CollectionDailyHealth, ownerID)
	return run(ctx, q.feed, channel, func() ([]*domain.DailyHealthRecord, error) {
		return q.health.ListSince(ctx, nil, ownerID, sinceDays)
	}, onChange)
}

func (q *Queries) SubscribeAssessments(ctx context.Context, ownerID uuid.UUID, limit int, onChange func([]*domain.AssessmentRecord)) CancelFunc {
	channel := realtime.ChannelFor(realtime.CollectionAssessments, ownerID)
	return run(ctx, q.feed, channel, func() ([]*domain.AssessmentRecord, error) {
		return q.assessments.ListByOwner(ctx, nil, ownerID, limit)
	}, onChange)
}

func (q *Queries) SubscribeMedications(ctx context.Context, ownerID uuid.UUID, onChange func([]*domain.Medication)) CancelFunc {
	channel := realtime.ChannelFor(realtime.CollectionMedications, ownerID)
	return run(ctx, q.feed, channel, func() ([]*domain.Medication, error) {
		return q.medications.ListByOwner(ctx, nil, ownerID)
	}, onChange)
}

func (q *Queries) SubscribeAppointments(ctx context.Context, ownerID uuid.UUID, onChange func([]*domain.Appointment)) CancelFunc {
	channel := realtime.ChannelFor(realtime.CollectionAppointments, ownerID)
	return run(ctx, q.feed, channel, func() ([]*domain.Appointment, error) {
		return q.appointments.ListByOwner(ctx, nil, ownerID)
	}, onChange)
}
