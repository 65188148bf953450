package domain

import (
	"time"

	"github.com/google/uuid"
)

// Preferences is nested on the profile document. JSON field names follow the
// historical client payloads (camelCase); the export format depends on them.
type Preferences struct {
	Notifications bool `gorm:"column:pref_notifications;not null;default:true" json:"notifications"`
	ReminderDays  int  `gorm:"column:pref_reminder_days;not null;default:3" json:"reminderDays"`
}

// UserProfile is created lazily, on first successful sign-in, with the
// defaults from DefaultProfile. Exactly one per user, keyed by the user id.
type UserProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"uid"`

	DisplayName string `gorm:"not null;column:display_name" json:"displayName"`
	Email       string `gorm:"not null;column:email" json:"email"`

	AverageCycleLength int         `gorm:"column:average_cycle_length;not null;default:28" json:"averageCycleLength"`
	Preferences        Preferences `gorm:"embedded" json:"preferences"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (UserProfile) TableName() string { return "user_profile" }
