package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

const DefaultHealthWindowDays = 30

type HealthInput struct {
	Date            datatypes.Date
	Weight          *float64
	Temperature     *float64
	SleepHours      *float64
	StressLevel     *int
	WaterIntake     *float64
	ExerciseMinutes int
	Symptoms        []string
	Mood            *int
	Notes           string
}

type HealthRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input HealthInput) (*domain.DailyHealthRecord, error)
	ListSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sinceDays int) ([]*domain.DailyHealthRecord, error)
}

type healthRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthRepo(db *gorm.DB, baseLog *logger.Logger) HealthRepo {
	repoLog := baseLog.With("repo", "HealthRepo")
	return &healthRepo{db: db, log: repoLog}
}

func (hr *healthRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input HealthInput) (*domain.DailyHealthRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}

	date := input.Date
	if time.Time(date).IsZero() {
		date = datatypes.Date(time.Now())
	}
	symptoms := input.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	record := &domain.DailyHealthRecord{
		ID:              uuid.New(),
		UserID:          ownerID,
		Date:            date,
		Weight:          input.Weight,
		Temperature:     input.Temperature,
		SleepHours:      input.SleepHours,
		StressLevel:     input.StressLevel,
		WaterIntake:     input.WaterIntake,
		ExerciseMinutes: input.ExerciseMinutes,
		Symptoms:        datatypes.NewJSONSlice(symptoms),
		Mood:            input.Mood,
		Notes:           input.Notes,
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (hr *healthRepo) ListSince(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, sinceDays int) ([]*domain.DailyHealthRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}

	if ownerID == uuid.Nil {
		return []*domain.DailyHealthRecord{}, nil
	}
	if sinceDays <= 0 {
		sinceDays = DefaultHealthWindowDays
	}

	cutoff := time.Now().AddDate(0, 0, -sinceDays)

	var results []*domain.DailyHealthRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Where("date >= ?", datatypes.Date(cutoff)).
		Order("date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
