package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

type AppointmentInput struct {
	DoctorName string
	Specialty  string
	Date       datatypes.Date
	Time       string
	Type       string
	Notes      string
}

type AppointmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input AppointmentInput) (*domain.Appointment, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*domain.Appointment, error)
}

type appointmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAppointmentRepo(db *gorm.DB, baseLog *logger.Logger) AppointmentRepo {
	repoLog := baseLog.With("repo", "AppointmentRepo")
	return &appointmentRepo{db: db, log: repoLog}
}

func (ar *appointmentRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input AppointmentInput) (*domain.Appointment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}

	record := &domain.Appointment{
		ID:         uuid.New(),
		UserID:     ownerID,
		DoctorName: input.DoctorName,
		Specialty:  input.Specialty,
		Date:       input.Date,
		Time:       input.Time,
		Type:       input.Type,
		Notes:      input.Notes,
		Status:     domain.AppointmentStatusScheduled,
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Appointments read ascending by date: the nearest upcoming one comes first
// in the scheduling views.
func (ar *appointmentRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*domain.Appointment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if ownerID == uuid.Nil {
		return []*domain.Appointment{}, nil
	}

	var results []*domain.Appointment
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
