package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lunacare/lunacare-backend/internal/clients/prediction"
	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
)

// Predictor is the slice of the risk-scoring client this service needs.
type Predictor interface {
	Predict(ctx context.Context, input domain.AssessmentInput) domain.PredictionResult
	ModelInfo(ctx context.Context) prediction.ModelInfo
}

type AssessmentService interface {
	// Run scores the input and, when scoring succeeds, persists the exact
	// snapshot that was sent together with the result. Persistence failures
	// are returned to the caller, never swallowed.
	Run(ctx context.Context, ownerID uuid.UUID, input domain.AssessmentInput) (domain.PredictionResult, *domain.AssessmentRecord, error)
	History(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.AssessmentRecord, error)
	Latest(ctx context.Context, ownerID uuid.UUID) (*domain.AssessmentRecord, error)
	Predictions(ctx context.Context, ownerID uuid.UUID, typeFilter string, limit int) ([]*domain.Prediction, error)
	ModelInfo(ctx context.Context) prediction.ModelInfo
}

type assessmentService struct {
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	predictionRepo repos.PredictionRepo
	predictor      Predictor
	bus            bus.Bus
}

func NewAssessmentService(
	log *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	predictionRepo repos.PredictionRepo,
	predictor Predictor,
	eventBus bus.Bus,
) AssessmentService {
	return &assessmentService{
		log:            log.With("service", "AssessmentService"),
		assessmentRepo: assessmentRepo,
		predictionRepo: predictionRepo,
		predictor:      predictor,
		bus:            eventBus,
	}
}

// ComputeBMI derives body mass index from weight in kilograms and height in
// centimeters. Zero when height is unset.
func ComputeBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

func (s *assessmentService) Run(ctx context.Context, ownerID uuid.UUID, input domain.AssessmentInput) (domain.PredictionResult, *domain.AssessmentRecord, error) {
	if ownerID == uuid.Nil {
		return domain.PredictionResult{}, nil, repos.ErrNoAuthenticatedUser
	}

	// BMI is computed once, here; the same snapshot goes to the scorer and to
	// storage so the history never disagrees with what was scored.
	if input.BMI == 0 {
		input.BMI = ComputeBMI(input.Weight, input.Height)
	}

	result := s.predictor.Predict(ctx, input)
	if !result.Success {
		s.log.Warn("risk scoring failed", "user_id", ownerID, "error", result.Error)
		return result, nil, nil
	}

	record, err := s.assessmentRepo.Create(ctx, nil, ownerID, input, result)
	if err != nil {
		return result, nil, err
	}

	s.recordPrediction(ctx, ownerID, result)

	if pErr := s.bus.Publish(ctx, realtime.Message{
		Channel: realtime.ChannelFor(realtime.CollectionAssessments, ownerID),
		Event:   realtime.EventAssessmentSaved,
		Data:    record,
	}); pErr != nil {
		s.log.Warn("publish assessment event failed", "user_id", ownerID, "error", pErr)
	}
	return result, record, nil
}

// recordPrediction keeps a derived prediction row next to the assessment
// history. Derived data: a write failure is logged, never surfaced.
func (s *assessmentService) recordPrediction(ctx context.Context, ownerID uuid.UUID, result domain.PredictionResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("marshal prediction payload failed", "user_id", ownerID, "error", err)
		return
	}
	if _, err := s.predictionRepo.Create(ctx, nil, ownerID, repos.PredictionInput{
		Type:          domain.PredictionTypePCOSRisk,
		Prediction:    datatypes.JSON(payload),
		Confidence:    result.Confidence,
		Factors:       result.Recommendations,
		ModelAccuracy: result.ModelAccuracy,
	}); err != nil {
		s.log.Warn("save prediction failed", "user_id", ownerID, "error", err)
	}
}

func (s *assessmentService) Predictions(ctx context.Context, ownerID uuid.UUID, typeFilter string, limit int) ([]*domain.Prediction, error) {
	return s.predictionRepo.ListByOwner(ctx, nil, ownerID, typeFilter, limit)
}

func (s *assessmentService) History(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.AssessmentRecord, error) {
	return s.assessmentRepo.ListByOwner(ctx, nil, ownerID, limit)
}

func (s *assessmentService) Latest(ctx context.Context, ownerID uuid.UUID) (*domain.AssessmentRecord, error) {
	return s.assessmentRepo.Latest(ctx, nil, ownerID)
}

func (s *assessmentService) ModelInfo(ctx context.Context) prediction.ModelInfo {
	return s.predictor.ModelInfo(ctx)
}
