package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User rows are owned by the identity provider side of the service. Profile
// attributes live on UserProfile, keyed by this row's id.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string    `gorm:"not null;column:password" json:"-"`
	DisplayName string    `gorm:"not null;column:display_name" json:"displayName"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (User) TableName() string { return "user" }

// Identity is the fraction of a user the session layer carries around:
// everything the identity provider owns, nothing the profile store owns.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) Identity() *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileDefaults is applied exactly once, at the data-access boundary, when a
// profile document is first created. Values match the historical client.
type ProfileDefaults struct {
	DisplayName        string
	AverageCycleLength int
	Notifications      bool
	ReminderDays       int
}

func DefaultProfile() ProfileDefaults {
	return ProfileDefaults{
		DisplayName:        "Luna Care User",
		AverageCycleLength: 28,
		Notifications:      true,
		ReminderDays:       3,
	}
}
