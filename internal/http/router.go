package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/lunacare/lunacare-backend/internal/http/handlers"
	httpMW "github.com/lunacare/lunacare-backend/internal/http/middleware"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	ProfileHandler    *httpH.ProfileHandler
	TrackingHandler   *httpH.TrackingHandler
	AssessmentHandler *httpH.AssessmentHandler
	AnalyticsHandler  *httpH.AnalyticsHandler
	RealtimeHandler   *httpH.RealtimeHandler
	PageHandler       *httpH.PageHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Route-guard decisions (public: the shell asks before it has a
		// session)
		if cfg.PageHandler != nil {
			api.GET("/route", cfg.PageHandler.Decide)
		}

		// Model metadata carries no user data.
		if cfg.AssessmentHandler != nil {
			api.GET("/model-info", cfg.AssessmentHandler.ModelInfo)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.PageHandler != nil {
			protected.GET("/session", cfg.PageHandler.Snapshot)
		}

		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.Stream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.Subscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.Unsubscribe)
		}

		if cfg.ProfileHandler != nil {
			protected.GET("/me", cfg.ProfileHandler.GetMe)
			protected.PATCH("/me", cfg.ProfileHandler.UpdateMe)
			protected.GET("/me/export", cfg.ProfileHandler.Export)
		}

		if cfg.TrackingHandler != nil {
			protected.POST("/cycles", cfg.TrackingHandler.LogCycle)
			protected.GET("/cycles", cfg.TrackingHandler.ListCycles)
			protected.POST("/health-records", cfg.TrackingHandler.LogDailyHealth)
			protected.GET("/health-records", cfg.TrackingHandler.ListDailyHealth)
			protected.POST("/medications", cfg.TrackingHandler.LogMedication)
			protected.GET("/medications", cfg.TrackingHandler.ListMedications)
			protected.POST("/appointments", cfg.TrackingHandler.ScheduleAppointment)
			protected.GET("/appointments", cfg.TrackingHandler.ListAppointments)
		}

		if cfg.AssessmentHandler != nil {
			protected.POST("/assessments", cfg.AssessmentHandler.Run)
			protected.GET("/assessments", cfg.AssessmentHandler.History)
			protected.GET("/assessments/latest", cfg.AssessmentHandler.Latest)
			protected.GET("/predictions", cfg.AssessmentHandler.Predictions)
		}

		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics", cfg.AnalyticsHandler.Get)
		}
	}

	return r
}
