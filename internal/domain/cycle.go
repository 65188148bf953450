package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Flow string

const (
	FlowLight  Flow = "light"
	FlowMedium Flow = "medium"
	FlowHeavy  Flow = "heavy"
)

func (f Flow) Valid() bool {
	switch f {
	case FlowLight, FlowMedium, FlowHeavy:
		return true
	}
	return false
}

// ParseFlow rejects anything outside the enum; records with unknown flow
// values never reach the store.
func ParseFlow(s string) (Flow, error) {
	f := Flow(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid flow intensity %q", s)
	}
	return f, nil
}

type CycleRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	StartDate  datatypes.Date              `gorm:"not null;column:start_date" json:"startDate"`
	EndDate    *datatypes.Date             `gorm:"column:end_date" json:"endDate"`
	Flow       Flow                        `gorm:"not null;column:flow" json:"flow"`
	Symptoms   datatypes.JSONSlice[string] `gorm:"column:symptoms" json:"symptoms"`
	Mood       int                         `gorm:"not null;default:0;column:mood" json:"mood"`
	Notes      string                      `gorm:"column:notes" json:"notes"`
	LengthDays *int                        `gorm:"column:length_days" json:"lengthDays"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (CycleRecord) TableName() string { return "cycle_record" }
