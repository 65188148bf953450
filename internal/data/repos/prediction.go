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

const DefaultPredictionListLimit = 10

type PredictionInput struct {
	Type          string
	Prediction    datatypes.JSON
	Confidence    float64
	Factors       []string
	ModelAccuracy float64
	ValidUntil    *time.Time
}

type PredictionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input PredictionInput) (*domain.Prediction, error)
	// ListByOwner filters by type when typeFilter is non-empty.
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, typeFilter string, limit int) ([]*domain.Prediction, error)
}

type predictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
	repoLog := baseLog.With("repo", "PredictionRepo")
	return &predictionRepo{db: db, log: repoLog}
}

func (pr *predictionRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input PredictionInput) (*domain.Prediction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}

	factors := input.Factors
	if factors == nil {
		factors = []string{}
	}

	record := &domain.Prediction{
		ID:            uuid.New(),
		UserID:        ownerID,
		Type:          input.Type,
		Prediction:    input.Prediction,
		Confidence:    input.Confidence,
		Factors:       datatypes.NewJSONSlice(factors),
		ModelAccuracy: input.ModelAccuracy,
		ValidUntil:    input.ValidUntil,
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (pr *predictionRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, typeFilter string, limit int) ([]*domain.Prediction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if ownerID == uuid.Nil {
		return []*domain.Prediction{}, nil
	}
	if limit <= 0 {
		limit = DefaultPredictionListLimit
	}

	query := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID)
	if typeFilter != "" {
		query = query.Where("type = ?", typeFilter)
	}

	var results []*domain.Prediction
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
