package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PredictionTypePCOSRisk tags prediction rows derived from risk assessments.
const PredictionTypePCOSRisk = "pcos_risk"

// Prediction stores a raw model output decoupled from any assessment, used by
// the recommendations views.
type Prediction struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	Type          string                      `gorm:"not null;index;column:type" json:"type"`
	Prediction    datatypes.JSON              `gorm:"column:prediction" json:"prediction"`
	Confidence    float64                     `gorm:"not null;default:0;column:confidence" json:"confidence"`
	Factors       datatypes.JSONSlice[string] `gorm:"column:factors" json:"factors"`
	ModelAccuracy float64                     `gorm:"not null;default:0;column:model_accuracy" json:"modelAccuracy"`

	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"createdAt"`
	ValidUntil *time.Time `gorm:"column:valid_until" json:"validUntil"`
}

func (Prediction) TableName() string { return "prediction" }
