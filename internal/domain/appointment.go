package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const AppointmentStatusScheduled = "scheduled"

type Appointment struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`

	DoctorName string         `gorm:"not null;column:doctor_name" json:"doctorName"`
	Specialty  string         `gorm:"column:specialty" json:"specialty"`
	Date       datatypes.Date `gorm:"not null;index;column:date" json:"date"`
	Time       string         `gorm:"column:time" json:"time"`
	Type       string         `gorm:"column:type" json:"type"`
	Notes      string         `gorm:"column:notes" json:"notes"`
	Status     string         `gorm:"not null;default:'scheduled';column:status" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
}

func (Appointment) TableName() string { return "appointment" }
