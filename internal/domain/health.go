package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DailyHealthRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	Date datatypes.Date `gorm:"not null;index;column:date" json:"date"`

	// Optional measurements stay null when the user logged nothing.
	Weight      *float64 `gorm:"column:weight" json:"weight"`
	Temperature *float64 `gorm:"column:temperature" json:"temperature"`
	SleepHours  *float64 `gorm:"column:sleep_hours" json:"sleepHours"`
	StressLevel *int     `gorm:"column:stress_level" json:"stressLevel"`
	WaterIntake *float64 `gorm:"column:water_intake" json:"waterIntake"`

	ExerciseMinutes int                         `gorm:"not null;default:0;column:exercise_minutes" json:"exerciseMinutes"`
	Symptoms        datatypes.JSONSlice[string] `gorm:"column:symptoms" json:"symptoms"`
	Mood            *int                        `gorm:"column:mood" json:"mood"`
	Notes           string                      `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (DailyHealthRecord) TableName() string { return "daily_health_record" }
