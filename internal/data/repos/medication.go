package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	StartDate datatypes.Date
	EndDate   *datatypes.Date
	Notes     string
	Reminders []string
}

type MedicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input MedicationInput) (*domain.Medication, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*domain.Medication, error)
}

type medicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicationRepo(db *gorm.DB, baseLog *logger.Logger) MedicationRepo {
	repoLog := baseLog.With("repo", "MedicationRepo")
	return &medicationRepo{db: db, log: repoLog}
}

func (mr *medicationRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input MedicationInput) (*domain.Medication, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}

	reminders := input.Reminders
	if reminders == nil {
		reminders = []string{}
	}

	record := &domain.Medication{
		ID:        uuid.New(),
		UserID:    ownerID,
		Name:      input.Name,
		Dosage:    input.Dosage,
		Frequency: input.Frequency,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Notes:     input.Notes,
		Reminders: datatypes.NewJSONSlice(reminders),
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (mr *medicationRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*domain.Medication, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if ownerID == uuid.Nil {
		return []*domain.Medication{}, nil
	}

	var results []*domain.Medication
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
