package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "pw",
		DisplayName: "Ada",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *domain.UserProfile {
	tb.Helper()
	p := &domain.UserProfile{
		UserID:             userID,
		DisplayName:        "Ada",
		Email:              "ada@example.com",
		AverageCycleLength: 28,
		Preferences: domain.Preferences{
			Notifications: true,
			ReminderDays:  3,
		},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func Date(tb testing.TB, value string) datatypes.Date {
	tb.Helper()
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		tb.Fatalf("parse date %q: %v", value, err)
	}
	return datatypes.Date(t)
}

func PtrDate(d datatypes.Date) *datatypes.Date { return &d }

func PtrTime(v time.Time) *time.Time { return &v }
