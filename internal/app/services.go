package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/lunacare/lunacare-backend/internal/clients/prediction"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime/bus"
	"github.com/lunacare/lunacare-backend/internal/scheduler"
	"github.com/lunacare/lunacare-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Profile    services.ProfileService
	Tracking   services.TrackingService
	Assessment services.AssessmentService
	Analytics  services.AnalyticsService
	Reminder   *scheduler.Service
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, eventBus bus.Bus) (Services, error) {
	log.Info("Wiring services...")

	predictor, err := prediction.NewFromEnv()
	if err != nil {
		return Services{}, fmt.Errorf("init prediction client: %w", err)
	}

	auth := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken,
		eventBus,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)

	return Services{
		Auth:       auth,
		Profile:    services.NewProfileService(log, reposet.Profile, eventBus),
		Tracking:   services.NewTrackingService(log, reposet.Cycle, reposet.Health, reposet.Medication, reposet.Appointment, eventBus),
		Assessment: services.NewAssessmentService(log, reposet.Assessment, reposet.Prediction, predictor, eventBus),
		Analytics:  services.NewAnalyticsService(log, reposet.Assessment, reposet.Cycle, reposet.Health),
		Reminder:   scheduler.New(log, reposet.Profile, reposet.Cycle, eventBus),
	}, nil
}
