package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
)

type fakeProfileRepo struct {
	profiles []*domain.UserProfile
}

func (f *fakeProfileRepo) Ensure(context.Context, *gorm.DB, *domain.Identity, domain.ProfileDefaults) (*domain.UserProfile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProfileRepo) Get(context.Context, *gorm.DB, uuid.UUID) (*domain.UserProfile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProfileRepo) Update(context.Context, *gorm.DB, uuid.UUID, repos.ProfileChanges) error {
	return errors.New("not implemented")
}

func (f *fakeProfileRepo) All(context.Context, *gorm.DB) ([]*domain.UserProfile, error) {
	return f.profiles, nil
}

type fakeCycleRepo struct {
	byOwner map[uuid.UUID][]*domain.CycleRecord
}

func (f *fakeCycleRepo) Create(context.Context, *gorm.DB, uuid.UUID, repos.CycleInput) (*domain.CycleRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCycleRepo) ListByOwner(_ context.Context, _ *gorm.DB, ownerID uuid.UUID, _ int) ([]*domain.CycleRecord, error) {
	return f.byOwner[ownerID], nil
}

type recordingBus struct {
	mu       sync.Mutex
	messages []realtime.Message
}

func (b *recordingBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	return nil
}

func (b *recordingBus) StartForwarder(context.Context, func(realtime.Message)) error { return nil }
func (b *recordingBus) Close() error                                                { return nil }

func date(t time.Time) datatypes.Date { return datatypes.Date(t) }

func TestNextPeriodProjectsForward(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	lastStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	next, days := nextPeriod(today, date(lastStart), 28)
	assert.Equal(t, time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), next)
	assert.Equal(t, 13, days)
}

func TestNextPeriodDefaultsCycleLength(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	lastStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	next, _ := nextPeriod(today, date(lastStart), 0)
	assert.Equal(t, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC), next)
}

func TestRunDailyPublishesWhenReminderDue(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)

	due := uuid.New()
	muted := uuid.New()
	noCycles := uuid.New()

	today := time.Now().Truncate(24 * time.Hour)
	// 28-day cycle that started 25 days ago: next period is 3 days out,
	// matching the default reminder preference.
	lastStart := today.AddDate(0, 0, -25)

	profiles := &fakeProfileRepo{profiles: []*domain.UserProfile{
		{UserID: due, AverageCycleLength: 28, Preferences: domain.Preferences{Notifications: true, ReminderDays: 3}},
		{UserID: muted, AverageCycleLength: 28, Preferences: domain.Preferences{Notifications: false, ReminderDays: 3}},
		{UserID: noCycles, AverageCycleLength: 28, Preferences: domain.Preferences{Notifications: true, ReminderDays: 3}},
	}}
	cycles := &fakeCycleRepo{byOwner: map[uuid.UUID][]*domain.CycleRecord{
		due:   {{UserID: due, StartDate: date(lastStart)}},
		muted: {{UserID: muted, StartDate: date(lastStart)}},
	}}
	eventBus := &recordingBus{}

	svc := New(log, profiles, cycles, eventBus)
	svc.RunDaily(context.Background())

	require.Len(t, eventBus.messages, 1)
	msg := eventBus.messages[0]
	assert.Equal(t, realtime.EventCycleReminder, msg.Event)
	assert.Equal(t, realtime.ChannelFor(realtime.CollectionCycles, due), msg.Channel)

	payload, ok := msg.Data.(CycleReminder)
	require.True(t, ok)
	assert.Equal(t, 3, payload.DaysUntil)
}
