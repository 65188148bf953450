package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/clients/prediction"
	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
)

type fakePredictor struct {
	result domain.PredictionResult
	scored []domain.AssessmentInput
	info   prediction.ModelInfo
}

func (f *fakePredictor) Predict(_ context.Context, input domain.AssessmentInput) domain.PredictionResult {
	f.scored = append(f.scored, input)
	return f.result
}

func (f *fakePredictor) ModelInfo(context.Context) prediction.ModelInfo { return f.info }

type capturingAssessmentRepo struct {
	fakeAssessmentRepo
	created   []domain.AssessmentInput
	createErr error
}

func (c *capturingAssessmentRepo) Create(_ context.Context, _ *gorm.DB, ownerID uuid.UUID, input domain.AssessmentInput, result domain.PredictionResult) (*domain.AssessmentRecord, error) {
	if ownerID == uuid.Nil {
		return nil, repos.ErrNoAuthenticatedUser
	}
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, input)
	return &domain.AssessmentRecord{UserID: ownerID, RiskScore: result.RiskScore}, nil
}

type fakePredictionRepo struct {
	created []repos.PredictionInput
}

func (f *fakePredictionRepo) Create(_ context.Context, _ *gorm.DB, ownerID uuid.UUID, input repos.PredictionInput) (*domain.Prediction, error) {
	if ownerID == uuid.Nil {
		return nil, repos.ErrNoAuthenticatedUser
	}
	f.created = append(f.created, input)
	return &domain.Prediction{UserID: ownerID, Type: input.Type}, nil
}

func (f *fakePredictionRepo) ListByOwner(_ context.Context, _ *gorm.DB, ownerID uuid.UUID, typeFilter string, limit int) ([]*domain.Prediction, error) {
	if ownerID == uuid.Nil {
		return []*domain.Prediction{}, nil
	}
	out := make([]*domain.Prediction, 0, len(f.created))
	for _, in := range f.created {
		if typeFilter != "" && in.Type != typeFilter {
			continue
		}
		out = append(out, &domain.Prediction{UserID: ownerID, Type: in.Type})
	}
	return out, nil
}

func newAssessmentService(t *testing.T, repo repos.AssessmentRepo, predictor Predictor) (AssessmentService, *fakePredictionRepo) {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	predictions := &fakePredictionRepo{}
	return NewAssessmentService(log, repo, predictions, predictor, bus.NewMemoryBus(log)), predictions
}

func TestRunScoresAndPersistsSameSnapshot(t *testing.T) {
	predictor := &fakePredictor{result: domain.PredictionResult{Success: true, RiskScore: 55}}
	repo := &capturingAssessmentRepo{}
	svc, predictions := newAssessmentService(t, repo, predictor)

	input := domain.AssessmentInput{Age: 30, Weight: 70, Height: 170}
	result, record, err := svc.Run(context.Background(), uuid.New(), input)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, result.Success)

	require.Len(t, predictor.scored, 1)
	require.Len(t, repo.created, 1)
	// The snapshot that was scored is the snapshot that was stored, BMI
	// included.
	assert.Equal(t, predictor.scored[0], repo.created[0])
	assert.InDelta(t, 70.0/(1.7*1.7), repo.created[0].BMI, 0.001)

	// Successful scoring also leaves a derived prediction row behind.
	require.Len(t, predictions.created, 1)
	assert.Equal(t, domain.PredictionTypePCOSRisk, predictions.created[0].Type)
}

func TestRunDoesNotPersistFailedScoring(t *testing.T) {
	predictor := &fakePredictor{result: domain.PredictionResult{Success: false, Error: "model offline"}}
	repo := &capturingAssessmentRepo{}
	svc, _ := newAssessmentService(t, repo, predictor)

	result, record, err := svc.Run(context.Background(), uuid.New(), domain.AssessmentInput{Age: 30})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.False(t, result.Success)
	assert.Empty(t, repo.created)
}

func TestRunSurfacesPersistFailure(t *testing.T) {
	predictor := &fakePredictor{result: domain.PredictionResult{Success: true}}
	repo := &capturingAssessmentRepo{createErr: errors.New("insert failed")}
	svc, _ := newAssessmentService(t, repo, predictor)

	_, _, err := svc.Run(context.Background(), uuid.New(), domain.AssessmentInput{Age: 30})
	assert.Error(t, err)
}

func TestRunRejectsMissingOwner(t *testing.T) {
	predictor := &fakePredictor{result: domain.PredictionResult{Success: true}}
	svc, _ := newAssessmentService(t, &capturingAssessmentRepo{}, predictor)

	_, _, err := svc.Run(context.Background(), uuid.Nil, domain.AssessmentInput{Age: 30})
	assert.ErrorIs(t, err, repos.ErrNoAuthenticatedUser)
	assert.Empty(t, predictor.scored)
}
