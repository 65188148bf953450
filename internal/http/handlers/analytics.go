package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunacare/lunacare-backend/internal/http/response"
	"github.com/lunacare/lunacare-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (ah *AnalyticsHandler) Get(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	analytics, err := ah.analyticsService.Compute(c.Request.Context(), userID)
	if err != nil {
		// All-or-nothing: a fetch failure yields no analytics object at all.
		response.RespondOK(c, gin.H{"analytics": nil})
		return
	}
	response.RespondOK(c, gin.H{"analytics": analytics})
}
