package app

import (
	"github.com/lunacare/lunacare-backend/internal/data/live"
	httpH "github.com/lunacare/lunacare-backend/internal/http/handlers"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/session"
)

type Handlers struct {
	Auth       *httpH.AuthHandler
	Profile    *httpH.ProfileHandler
	Tracking   *httpH.TrackingHandler
	Assessment *httpH.AssessmentHandler
	Analytics  *httpH.AnalyticsHandler
	Realtime   *httpH.RealtimeHandler
	Pages      *httpH.PageHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.Hub, queries *live.Queries, sessions *session.Manager) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(serviceset.Auth),
		Profile:    httpH.NewProfileHandler(serviceset.Profile),
		Tracking:   httpH.NewTrackingHandler(serviceset.Tracking),
		Assessment: httpH.NewAssessmentHandler(serviceset.Assessment),
		Analytics:  httpH.NewAnalyticsHandler(serviceset.Analytics),
		Realtime:   httpH.NewRealtimeHandler(log, hub, queries),
		Pages:      httpH.NewPageHandler(sessions),
		Health:     httpH.NewHealthHandler(),
	}
}
