// Package scheduler runs the daily cycle-reminder sweep: for every profile
// with notifications enabled, predict the next period start from the most
// recent cycle and announce a reminder when it is the preferred number of
// days away.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/envutil"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
)

// CycleReminder is the payload published on the owner's cycle channel.
type CycleReminder struct {
	NextPeriodStart time.Time `json:"nextPeriodStart"`
	DaysUntil       int       `json:"daysUntil"`
}

type Service struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	cycleRepo   repos.CycleRepo
	bus         bus.Bus
	spec        string
}

func New(log *logger.Logger, profileRepo repos.ProfileRepo, cycleRepo repos.CycleRepo, eventBus bus.Bus) *Service {
	return &Service{
		log:         log.With("component", "ReminderScheduler"),
		profileRepo: profileRepo,
		cycleRepo:   cycleRepo,
		bus:         eventBus,
		spec:        envutil.String("REMINDER_CRON", "0 8 * * *"),
	}
}

// Start registers the daily sweep and returns the running cron scheduler; the
// caller stops it on shutdown.
func (s *Service) Start() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.RunDaily(context.Background()) }); err != nil {
		s.log.Error("invalid reminder cron spec", "spec", s.spec, "error", err)
		return c
	}
	c.Start()
	s.log.Info("reminder sweep scheduled", "spec", s.spec)
	return c
}

func (s *Service) RunDaily(ctx context.Context) {
	profiles, err := s.profileRepo.All(ctx, nil)
	if err != nil {
		s.log.Error("reminder sweep: list profiles failed", "error", err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	sent := 0
	for _, profile := range profiles {
		if !profile.Preferences.Notifications {
			continue
		}
		cycles, cErr := s.cycleRepo.ListByOwner(ctx, nil, profile.UserID, 1)
		if cErr != nil {
			s.log.Warn("reminder sweep: list cycles failed", "user_id", profile.UserID, "error", cErr)
			continue
		}
		if len(cycles) == 0 {
			continue
		}

		next, days := nextPeriod(today, cycles[0].StartDate, profile.AverageCycleLength)
		if days != profile.Preferences.ReminderDays {
			continue
		}

		if pErr := s.bus.Publish(ctx, realtime.Message{
			Channel: realtime.ChannelFor(realtime.CollectionCycles, profile.UserID),
			Event:   realtime.EventCycleReminder,
			Data:    CycleReminder{NextPeriodStart: next, DaysUntil: days},
		}); pErr != nil {
			s.log.Warn("reminder sweep: publish failed", "user_id", profile.UserID, "error", pErr)
			continue
		}
		sent++
	}
	s.log.Info("reminder sweep finished", "profiles", len(profiles), "reminders", sent)
}

// nextPeriod projects the next period start on or after today from the last
// recorded start and the profile's average cycle length, and reports how many
// whole days away it is.
func nextPeriod(today time.Time, lastStart datatypes.Date, cycleLength int) (time.Time, int) {
	if cycleLength <= 0 {
		cycleLength = domain.DefaultProfile().AverageCycleLength
	}
	next := time.Time(lastStart).Truncate(24 * time.Hour)
	for next.Before(today) {
		next = next.AddDate(0, 0, cycleLength)
	}
	days := int(next.Sub(today).Hours() / 24)
	return next, days
}
