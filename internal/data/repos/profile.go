package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

// ProfileChanges carries a partial update. Nil fields are left untouched.
type ProfileChanges struct {
	DisplayName        *string
	AverageCycleLength *int
	Notifications      *bool
	ReminderDays       *int
}

type ProfileRepo interface {
	// Ensure creates the profile document with defaults if and only if it is
	// absent, as a single conditional insert. The existing document is never
	// touched: no defaults re-applied, no timestamp bump.
	Ensure(ctx context.Context, tx *gorm.DB, identity *domain.Identity, defaults domain.ProfileDefaults) (*domain.UserProfile, error)
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserProfile, error)
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, changes ProfileChanges) error
	All(ctx context.Context, tx *gorm.DB) ([]*domain.UserProfile, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) Ensure(ctx context.Context, tx *gorm.DB, identity *domain.Identity, defaults domain.ProfileDefaults) (*domain.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if identity == nil || identity.ID == uuid.Nil {
		return nil, ErrMissingID
	}

	displayName := identity.DisplayName
	if displayName == "" {
		displayName = defaults.DisplayName
	}

	candidate := &domain.UserProfile{
		UserID:             identity.ID,
		DisplayName:        displayName,
		Email:              identity.Email,
		AverageCycleLength: defaults.AverageCycleLength,
		Preferences: domain.Preferences{
			Notifications: defaults.Notifications,
			ReminderDays:  defaults.ReminderDays,
		},
	}

	// Conditional insert; a concurrent Ensure from another session loses the
	// race harmlessly and both callers read the same winning row.
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate).Error; err != nil {
		return nil, err
	}

	return pr.Get(ctx, transaction, identity.ID)
}

func (pr *profileRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if userID == uuid.Nil {
		return nil, ErrMissingID
	}

	var result domain.UserProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, changes ProfileChanges) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if userID == uuid.Nil {
		return ErrMissingID
	}

	updates := map[string]any{
		"updated_at": time.Now(),
	}
	if changes.DisplayName != nil {
		updates["display_name"] = *changes.DisplayName
	}
	if changes.AverageCycleLength != nil {
		updates["average_cycle_length"] = *changes.AverageCycleLength
	}
	if changes.Notifications != nil {
		updates["pref_notifications"] = *changes.Notifications
	}
	if changes.ReminderDays != nil {
		updates["pref_reminder_days"] = *changes.ReminderDays
	}

	return transaction.WithContext(ctx).
		Model(&domain.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

func (pr *profileRepo) All(ctx context.Context, tx *gorm.DB) ([]*domain.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*domain.UserProfile
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
