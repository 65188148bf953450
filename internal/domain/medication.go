package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Medication struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	Name      string                      `gorm:"not null;column:name" json:"name"`
	Dosage    string                      `gorm:"column:dosage" json:"dosage"`
	Frequency string                      `gorm:"column:frequency" json:"frequency"`
	StartDate datatypes.Date              `gorm:"not null;column:start_date" json:"startDate"`
	EndDate   *datatypes.Date             `gorm:"column:end_date" json:"endDate"`
	Notes     string                      `gorm:"column:notes" json:"notes"`
	Reminders datatypes.JSONSlice[string] `gorm:"column:reminders" json:"reminders"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Medication) TableName() string { return "medication" }
