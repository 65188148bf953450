// Package prediction calls the external risk-scoring service. Failures never
// escape as errors from Predict: callers always get a result value whose
// Success flag must be checked before anything else is read.
package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/envutil"
)

type Options struct {
	BaseURL string

	Timeout    time.Duration
	MaxRetries int

	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
	}, nil
}

func NewFromEnv() (*Client, error) {
	return New(Options{
		BaseURL:    envutil.String("PREDICTION_BASE_URL", "http://localhost:5000"),
		Timeout:    envutil.Seconds("PREDICTION_TIMEOUT_SECONDS", 30),
		MaxRetries: envutil.Int("PREDICTION_MAX_RETRIES", 0),
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

// predictRequest is the scoring service's wire shape. The field names are the
// service's own (trained-model column names), not ours, and must not change.
type predictRequest struct {
	Age             float64 `json:"Age (yrs)"`
	Weight          float64 `json:"Weight (Kg)"`
	Height          float64 `json:"Height(Cm)"`
	BMI             float64 `json:"BMI"`
	CycleRegular    int     `json:"cycle_regular"`
	WeightGain      int     `json:"weight_gain"`
	HairGrowth      int     `json:"hair_growth"`
	Pimples         int     `json:"pimples"`
	FastFood        int     `json:"fast_food"`
	RegularExercise int     `json:"regular_exercise"`
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toWire(input domain.AssessmentInput) predictRequest {
	req := predictRequest{
		Age:             float64(input.Age),
		Weight:          input.Weight,
		Height:          input.Height,
		BMI:             input.BMI,
		CycleRegular:    boolToFlag(input.CycleRegular),
		WeightGain:      boolToFlag(input.WeightGain),
		HairGrowth:      boolToFlag(input.HairGrowth),
		Pimples:         boolToFlag(input.Acne),
		FastFood:        boolToFlag(input.FastFood),
		RegularExercise: boolToFlag(input.Exercise),
	}
	// Neutral fallbacks for unset measurements, matching what the model was
	// evaluated against.
	if req.Age == 0 {
		req.Age = 25
	}
	if req.Weight == 0 {
		req.Weight = 60
	}
	if req.Height == 0 {
		req.Height = 165
	}
	if req.BMI == 0 && req.Height > 0 {
		h := req.Height / 100
		req.BMI = req.Weight / (h * h)
	}
	return req
}

// Predict scores one assessment snapshot. Any failure (transport, non-2xx,
// undecodable body) comes back as Success=false with Error set.
func (c *Client) Predict(ctx context.Context, input domain.AssessmentInput) domain.PredictionResult {
	var result domain.PredictionResult
	if err := c.doJSON(ctx, http.MethodPost, "/predict-pcos", toWire(input), &result); err != nil {
		return domain.PredictionResult{Success: false, Error: err.Error()}
	}
	return result
}

// ModelInfo is the static metadata the scoring service reports about its
// trained model.
type ModelInfo struct {
	Success         bool    `json:"success"`
	Accuracy        float64 `json:"accuracy"`
	FeaturesCount   int     `json:"features_count"`
	TrainingSamples any     `json:"training_samples"`
	ModelType       string  `json:"model_type"`
	Error           string  `json:"error,omitempty"`
}

func (c *Client) ModelInfo(ctx context.Context) ModelInfo {
	var info ModelInfo
	if err := c.doJSON(ctx, http.MethodGet, "/model-info", nil, &info); err != nil {
		return ModelInfo{Success: false, Error: err.Error()}
	}
	return info
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx2.Err() != nil {
			return ctx2.Err()
		}

		req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, strings.NewReader(string(payload)))
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				return readErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				lastErr = parseHTTPError(resp.StatusCode, raw)
			} else {
				if out == nil {
					return nil
				}
				return json.Unmarshal(raw, out)
			}
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx2.Done():
				return ctx2.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return lastErr
}

// parseHTTPError prefers the service's own error text when the body carries
// one.
func parseHTTPError(status int, raw []byte) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && strings.TrimSpace(envelope.Error) != "" {
		return fmt.Errorf("prediction service: %s (status %d)", envelope.Error, status)
	}
	return fmt.Errorf("prediction service: unexpected status %d", status)
}
