package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
)

// DataExport is the user-triggered "export my data" document. The cycles and
// symptoms fields are reserved in the format but not yet populated.
type DataExport struct {
	Profile     *domain.UserProfile `json:"profile"`
	Cycles      []any               `json:"cycles"`
	Symptoms    []any               `json:"symptoms"`
	Preferences domain.Preferences  `json:"preferences"`
}

type ProfileService interface {
	Ensure(ctx context.Context, identity *domain.Identity, defaults domain.ProfileDefaults) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	Update(ctx context.Context, userID uuid.UUID, changes repos.ProfileChanges) (*domain.UserProfile, error)
	Export(ctx context.Context, userID uuid.UUID) (*DataExport, error)
}

type profileService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	bus         bus.Bus
}

func NewProfileService(log *logger.Logger, profileRepo repos.ProfileRepo, eventBus bus.Bus) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		bus:         eventBus,
	}
}

func (ps *profileService) Ensure(ctx context.Context, identity *domain.Identity, defaults domain.ProfileDefaults) error {
	_, err := ps.profileRepo.Ensure(ctx, nil, identity, defaults)
	return err
}

func (ps *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return ps.profileRepo.Get(ctx, nil, userID)
}

func (ps *profileService) Update(ctx context.Context, userID uuid.UUID, changes repos.ProfileChanges) (*domain.UserProfile, error) {
	if err := ps.profileRepo.Update(ctx, nil, userID, changes); err != nil {
		return nil, err
	}
	updated, err := ps.profileRepo.Get(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	if pErr := ps.bus.Publish(ctx, realtime.Message{
		Channel: realtime.ChannelFor(realtime.CollectionProfile, userID),
		Event:   realtime.EventProfileUpdated,
		Data:    updated,
	}); pErr != nil {
		ps.log.Warn("publish profile update failed", "user_id", userID, "error", pErr)
	}
	return updated, nil
}

func (ps *profileService) Export(ctx context.Context, userID uuid.UUID) (*DataExport, error) {
	profile, err := ps.profileRepo.Get(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile for user %s", userID)
	}
	return &DataExport{
		Profile:     profile,
		Cycles:      []any{},
		Symptoms:    []any{},
		Preferences: profile.Preferences,
	}, nil
}
