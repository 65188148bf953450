package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentInput is the exact snapshot sent to the risk-scoring service.
// BMI is computed once, before the prediction call, and persisted unchanged.
type AssessmentInput struct {
	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	BMI          float64 `json:"bmi"`
	CycleRegular bool    `json:"cycleRegular"`
	WeightGain   bool    `json:"weightGain"`
	HairGrowth   bool    `json:"hairGrowth"`
	Acne         bool    `json:"acne"`
	FastFood     bool    `json:"fastFood"`
	Exercise     bool    `json:"exercise"`
}

// PredictionResult mirrors the risk service's response shape field for field.
type PredictionResult struct {
	Success         bool     `json:"success"`
	RiskScore       float64  `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	Confidence      float64  `json:"confidence"`
	ModelAccuracy   float64  `json:"model_accuracy"`
	Recommendations []string `json:"recommendations"`
	Error           string   `json:"error,omitempty"`
}

type AssessmentRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	InputData        datatypes.JSONType[AssessmentInput]  `gorm:"column:input_data" json:"inputData"`
	PredictionResult datatypes.JSONType[PredictionResult] `gorm:"column:prediction_result" json:"predictionResult"`

	// Denormalized for history views and analytics.
	RiskScore       float64                     `gorm:"not null;default:0;column:risk_score" json:"riskScore"`
	RiskLevel       string                      `gorm:"column:risk_level" json:"riskLevel"`
	Recommendations datatypes.JSONSlice[string] `gorm:"column:recommendations" json:"recommendations"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	// Numeric creation instant (unix millis) used for ordering in history views.
	Timestamp int64 `gorm:"not null;index;column:timestamp" json:"timestamp"`
}

func (AssessmentRecord) TableName() string { return "assessment_record" }
