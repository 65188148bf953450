package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserToken struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"userId"`
	AccessToken  string         `gorm:"uniqueIndex;not null;column:access_token" json:"accessToken"`
	RefreshToken string         `gorm:"uniqueIndex;not null;column:refresh_token" json:"refreshToken"`
	ExpiresAt    time.Time      `gorm:"column:expires_at" json:"expiresAt"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (UserToken) TableName() string { return "user_token" }
