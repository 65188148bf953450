package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunacare/lunacare-backend/internal/domain"
)

func testInput() domain.AssessmentInput {
	return domain.AssessmentInput{
		Age:          28,
		Weight:       62,
		Height:       165,
		BMI:          22.8,
		CycleRegular: true,
		WeightGain:   false,
		HairGrowth:   true,
		Acne:         true,
		FastFood:     false,
		Exercise:     true,
	}
}

func TestPredictSendsModelFieldNames(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict-pcos", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(domain.PredictionResult{
			Success:         true,
			RiskScore:       42.5,
			RiskLevel:       "Moderate",
			Confidence:      87.1,
			ModelAccuracy:   91.3,
			Recommendations: []string{"Maintain regular exercise"},
		})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	result := c.Predict(context.Background(), testInput())
	require.True(t, result.Success)
	assert.Equal(t, 42.5, result.RiskScore)
	assert.Equal(t, "Moderate", result.RiskLevel)

	assert.Equal(t, 28.0, got["Age (yrs)"])
	assert.Equal(t, 62.0, got["Weight (Kg)"])
	assert.Equal(t, 165.0, got["Height(Cm)"])
	assert.Equal(t, 22.8, got["BMI"])
	assert.Equal(t, 1.0, got["cycle_regular"])
	assert.Equal(t, 0.0, got["weight_gain"])
	assert.Equal(t, 1.0, got["hair_growth"])
	assert.Equal(t, 1.0, got["pimples"])
	assert.Equal(t, 0.0, got["fast_food"])
	assert.Equal(t, 1.0, got["regular_exercise"])
}

func TestPredictDefaultsUnsetMeasurements(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(domain.PredictionResult{Success: true})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	c.Predict(context.Background(), domain.AssessmentInput{})
	assert.Equal(t, 25.0, got["Age (yrs)"])
	assert.Equal(t, 60.0, got["Weight (Kg)"])
	assert.Equal(t, 165.0, got["Height(Cm)"])
	assert.InDelta(t, 60.0/(1.65*1.65), got["BMI"].(float64), 0.01)
}

func TestPredictSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "model not loaded"})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	result := c.Predict(context.Background(), testInput())
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "model not loaded")
}

func TestPredictSurfacesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	result := c.Predict(context.Background(), testInput())
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestPredictRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.PredictionResult{Success: true, RiskScore: 10})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, MaxRetries: 2})
	require.NoError(t, err)

	result := c.Predict(context.Background(), testInput())
	assert.True(t, result.Success)
	assert.Equal(t, 2, calls)
}

func TestModelInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/model-info", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"accuracy":         91.3,
			"features_count":   10,
			"training_samples": 541,
			"model_type":       "Enhanced Random Forest Classifier",
		})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	info := c.ModelInfo(context.Background())
	require.True(t, info.Success)
	assert.Equal(t, 91.3, info.Accuracy)
	assert.Equal(t, 10, info.FeaturesCount)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
