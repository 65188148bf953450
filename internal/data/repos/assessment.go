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

const DefaultAssessmentListLimit = 20

type AssessmentRepo interface {
	// Create is the one write path that must not silently no-op: an empty
	// owner id is rejected with ErrNoAuthenticatedUser before anything else.
	Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input domain.AssessmentInput, result domain.PredictionResult) (*domain.AssessmentRecord, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.AssessmentRecord, error)
	Latest(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*domain.AssessmentRecord, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, input domain.AssessmentInput, result domain.PredictionResult) (*domain.AssessmentRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if ownerID == uuid.Nil {
		return nil, ErrNoAuthenticatedUser
	}

	recommendations := result.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	record := &domain.AssessmentRecord{
		ID:               uuid.New(),
		UserID:           ownerID,
		InputData:        datatypes.NewJSONType(input),
		PredictionResult: datatypes.NewJSONType(result),
		RiskScore:        result.RiskScore,
		RiskLevel:        result.RiskLevel,
		Recommendations:  datatypes.NewJSONSlice(recommendations),
		Timestamp:        time.Now().UnixMilli(),
	}

	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (ar *assessmentRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, limit int) ([]*domain.AssessmentRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if ownerID == uuid.Nil {
		return []*domain.AssessmentRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultAssessmentListLimit
	}

	var results []*domain.AssessmentRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assessmentRepo) Latest(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*domain.AssessmentRecord, error) {
	rows, err := ar.ListByOwner(ctx, tx, ownerID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
