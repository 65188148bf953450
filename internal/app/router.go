package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/lunacare/lunacare-backend/internal/http"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log:               log,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		ProfileHandler:    handlers.Profile,
		TrackingHandler:   handlers.Tracking,
		AssessmentHandler: handlers.Assessment,
		AnalyticsHandler:  handlers.Analytics,
		RealtimeHandler:   handlers.Realtime,
		PageHandler:       handlers.Pages,
		HealthHandler:     handlers.Health,
	})
}
