package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
)

// TrackingService is the write/read surface for the owner-scoped tracking
// collections. Every successful write announces itself on the owner's
// collection channel so live queries refresh.
type TrackingService interface {
	LogCycle(ctx context.Context, ownerID uuid.UUID, input repos.CycleInput) (*domain.CycleRecord, error)
	ListCycles(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error)

	LogDailyHealth(ctx context.Context, ownerID uuid.UUID, input repos.HealthInput) (*domain.DailyHealthRecord, error)
	ListDailyHealth(ctx context.Context, ownerID uuid.UUID, sinceDays int) ([]*domain.DailyHealthRecord, error)

	LogMedication(ctx context.Context, ownerID uuid.UUID, input repos.MedicationInput) (*domain.Medication, error)
	ListMedications(ctx context.Context, ownerID uuid.UUID) ([]*domain.Medication, error)

	ScheduleAppointment(ctx context.Context, ownerID uuid.UUID, input repos.AppointmentInput) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, ownerID uuid.UUID) ([]*domain.Appointment, error)
}

type trackingService struct {
	log             *logger.Logger
	cycleRepo       repos.CycleRepo
	healthRepo      repos.HealthRepo
	medicationRepo  repos.MedicationRepo
	appointmentRepo repos.AppointmentRepo
	bus             bus.Bus
}

func NewTrackingService(
	log *logger.Logger,
	cycleRepo repos.CycleRepo,
	healthRepo repos.HealthRepo,
	medicationRepo repos.MedicationRepo,
	appointmentRepo repos.AppointmentRepo,
	eventBus bus.Bus,
) TrackingService {
	return &trackingService{
		log:             log.With("service", "TrackingService"),
		cycleRepo:       cycleRepo,
		healthRepo:      healthRepo,
		medicationRepo:  medicationRepo,
		appointmentRepo: appointmentRepo,
		bus:             eventBus,
	}
}

func (ts *trackingService) announce(ctx context.Context, collection string, ownerID uuid.UUID, event realtime.Event, data any) {
	if err := ts.bus.Publish(ctx, realtime.Message{
		Channel: realtime.ChannelFor(collection, ownerID),
		Event:   event,
		Data:    data,
	}); err != nil {
		ts.log.Warn("publish record event failed", "collection", collection, "user_id", ownerID, "error", err)
	}
}

func (ts *trackingService) LogCycle(ctx context.Context, ownerID uuid.UUID, input repos.CycleInput) (*domain.CycleRecord, error) {
	record, err := ts.cycleRepo.Create(ctx, nil, ownerID, input)
	if err != nil {
		return nil, err
	}
	ts.announce(ctx, realtime.CollectionCycles, ownerID, realtime.EventCycleLogged, record)
	return record, nil
}

func (ts *trackingService) ListCycles(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error) {
	return ts.cycleRepo.ListByOwner(ctx, nil, ownerID, limit)
}

func (ts *trackingService) LogDailyHealth(ctx context.Context, ownerID uuid.UUID, input repos.HealthInput) (*domain.DailyHealthRecord, error) {
	record, err := ts.healthRepo.Create(ctx, nil, ownerID, input)
	if err != nil {
		return nil, err
	}
	ts.announce(ctx, realtime.CollectionDailyHealth, ownerID, realtime.EventHealthLogged, record)
	return record, nil
}

func (ts *trackingService) ListDailyHealth(ctx context.Context, ownerID uuid.UUID, sinceDays int) ([]*domain.DailyHealthRecord, error) {
	return ts.healthRepo.ListSince(ctx, nil, ownerID, sinceDays)
}

func (ts *trackingService) LogMedication(ctx context.Context, ownerID uuid.UUID, input repos.MedicationInput) (*domain.Medication, error) {
	record, err := ts.medicationRepo.Create(ctx, nil, ownerID, input)
	if err != nil {
		return nil, err
	}
	ts.announce(ctx, realtime.CollectionMedications, ownerID, realtime.EventMedicationLogged, record)
	return record, nil
}

func (ts *trackingService) ListMedications(ctx context.Context, ownerID uuid.UUID) ([]*domain.Medication, error) {
	return ts.medicationRepo.ListByOwner(ctx, nil, ownerID)
}

func (ts *trackingService) ScheduleAppointment(ctx context.Context, ownerID uuid.UUID, input repos.AppointmentInput) (*domain.Appointment, error) {
	record, err := ts.appointmentRepo.Create(ctx, nil, ownerID, input)
	if err != nil {
		return nil, err
	}
	ts.announce(ctx, realtime.CollectionAppointments, ownerID, realtime.EventAppointmentScheduled, record)
	return record, nil
}

func (ts *trackingService) ListAppointments(ctx context.Context, ownerID uuid.UUID) ([]*domain.Appointment, error) {
	return ts.appointmentRepo.ListByOwner(ctx, nil, ownerID)
}
