package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/http/response"
	"github.com/lunacare/lunacare-backend/internal/requestdata"
	"github.com/lunacare/lunacare-backend/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ownerID pulls the authenticated user out of the request context. Handlers
// behind RequireAuth can rely on it being set.
func ownerID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no authenticated user")
	}
	return rd.UserID, nil
}

func (ph *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	profile, err := ph.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "profile_fetch_failed", err)
		return
	}
	if profile == nil {
		response.RespondError(c, http.StatusNotFound, "profile_not_found", fmt.Errorf("no profile for user"))
		return
	}
	response.RespondOK(c, profile)
}

func (ph *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		DisplayName        *string `json:"displayName"`
		AverageCycleLength *int    `json:"averageCycleLength"`
		Notifications      *bool   `json:"notifications"`
		ReminderDays       *int    `json:"reminderDays"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := ph.profileService.Update(c.Request.Context(), userID, repos.ProfileChanges{
		DisplayName:        req.DisplayName,
		AverageCycleLength: req.AverageCycleLength,
		Notifications:      req.Notifications,
		ReminderDays:       req.ReminderDays,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "profile_update_failed", err)
		return
	}
	response.RespondOK(c, updated)
}

func (ph *ProfileHandler) Export(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	export, err := ph.profileService.Export(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="luna-care-data.json"`)
	response.RespondOK(c, export)
}
