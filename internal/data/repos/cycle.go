package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

const DefaultCycleListLimit = 50

// CycleInput is the payload for a log action. Optional fields default to the
// documented neutral values at this boundary, not at call sites.
type CycleInput struct {
	StartDate datatypes.Date
	EndDate   *datatypes.Date
	Flow      domain.Flow
	Symptoms  []string
	Mood      int
	Notes     string
}

type CycleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input CycleInput) (*domain.CycleRecord, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error)
}

type cycleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCycleRepo(db *gorm.DB, baseLog *logger.Logger) CycleRepo {
	repoLog := baseLog.With("repo", "CycleRepo")
	return &cycleRepo{db: db, log: repoLog}
}

func (cr *cycleRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input CycleInput) (*domain.CycleRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}
	if !input.Flow.Valid() {
		return nil, fmt.Errorf("invalid flow intensity %q", input.Flow)
	}

	symptoms := input.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	record := &domain.CycleRecord{
		ID:         uuid.New(),
		UserID:     ownerID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Flow:       input.Flow,
		Symptoms:   datatypes.NewJSONSlice(symptoms),
		Mood:       input.Mood,
		Notes:      input.Notes,
		LengthDays: cycleLength(input.StartDate, input.EndDate),
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (cr *cycleRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.CycleRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	// Lenient by contract: not-yet-authenticated callers get an empty list.
	if ownerID == uuid.Nil {
		return []*domain.CycleRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultCycleListLimit
	}

	var results []*domain.CycleRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("start_date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func cycleLength(start datatypes.Date, end *datatypes.Date) *int {
	if end == nil {
		return nil
	}
	days := int(time.Time(*end).Sub(time.Time(start)).Hours() / 24)
	if days < 0 {
		return nil
	}
	return &days
}
