package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/http/response"
	"github.com/lunacare/lunacare-backend/internal/services"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

func parseOptionalDate(s string) (*datatypes.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (th *TrackingHandler) LogCycle(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		StartDate string   `json:"startDate" binding:"required"`
		EndDate   string   `json:"endDate"`
		Flow      string   `json:"flow"`
		Symptoms  []string `json:"symptoms"`
		Mood      int      `json:"mood"`
		Notes     string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_start_date", err)
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_end_date", err)
		return
	}
	flow, err := domain.ParseFlow(req.Flow)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_flow", err)
		return
	}
	record, err := th.trackingService.LogCycle(c.Request.Context(), userID, repos.CycleInput{
		StartDate: start,
		EndDate:   end,
		Flow:      flow,
		Symptoms:  req.Symptoms,
		Mood:      req.Mood,
		Notes:     req.Notes,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "cycle_log_failed", err)
		return
	}
	response.RespondOK(c, record)
}

func (th *TrackingHandler) ListCycles(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	limit := intQuery(c, "limit", repos.DefaultCycleListLimit)
	records, err := th.trackingService.ListCycles(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "cycle_list_failed", err)
		return
	}
	response.RespondOK(c, records)
}

func (th *TrackingHandler) LogDailyHealth(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Date            string   `json:"date"`
		Weight          *float64 `json:"weight"`
		Temperature     *float64 `json:"temperature"`
		SleepHours      *float64 `json:"sleepHours"`
		StressLevel     *int     `json:"stressLevel"`
		WaterIntake     *float64 `json:"waterIntake"`
		ExerciseMinutes int      `json:"exerciseMinutes"`
		Symptoms        []string `json:"symptoms"`
		Mood            *int     `json:"mood"`
		Notes           string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var date datatypes.Date
	if req.Date != "" {
		parsed, pErr := parseDate(req.Date)
		if pErr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_date", pErr)
			return
		}
		date = parsed
	}
	record, err := th.trackingService.LogDailyHealth(c.Request.Context(), userID, repos.HealthInput{
		Date:            date,
		Weight:          req.Weight,
		Temperature:     req.Temperature,
		SleepHours:      req.SleepHours,
		StressLevel:     req.StressLevel,
		WaterIntake:     req.WaterIntake,
		ExerciseMinutes: req.ExerciseMinutes,
		Symptoms:        req.Symptoms,
		Mood:            req.Mood,
		Notes:           req.Notes,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "health_log_failed", err)
		return
	}
	response.RespondOK(c, record)
}

func (th *TrackingHandler) ListDailyHealth(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	sinceDays := intQuery(c, "sinceDays", repos.DefaultHealthWindowDays)
	records, err := th.trackingService.ListDailyHealth(c.Request.Context(), userID, sinceDays)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "health_list_failed", err)
		return
	}
	response.RespondOK(c, records)
}

func (th *TrackingHandler) LogMedication(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Name      string   `json:"name" binding:"required"`
		Dosage    string   `json:"dosage"`
		Frequency string   `json:"frequency"`
		StartDate string   `json:"startDate"`
		EndDate   string   `json:"endDate"`
		Notes     string   `json:"notes"`
		Reminders []string `json:"reminders"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var start datatypes.Date
	if req.StartDate != "" {
		parsed, pErr := parseDate(req.StartDate)
		if pErr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_start_date", pErr)
			return
		}
		start = parsed
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_end_date", err)
		return
	}
	record, err := th.trackingService.LogMedication(c.Request.Context(), userID, repos.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: start,
		EndDate:   end,
		Notes:     req.Notes,
		Reminders: req.Reminders,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "medication_log_failed", err)
		return
	}
	response.RespondOK(c, record)
}

func (th *TrackingHandler) ListMedications(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	records, err := th.trackingService.ListMedications(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "medication_list_failed", err)
		return
	}
	response.RespondOK(c, records)
}

func (th *TrackingHandler) ScheduleAppointment(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		DoctorName string `json:"doctorName" binding:"required"`
		Specialty  string `json:"specialty"`
		Date       string `json:"date" binding:"required"`
		Time       string `json:"time"`
		Type       string `json:"type"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	record, err := th.trackingService.ScheduleAppointment(c.Request.Context(), userID, repos.AppointmentInput{
		DoctorName: req.DoctorName,
		Specialty:  req.Specialty,
		Date:       date,
		Time:       req.Time,
		Type:       req.Type,
		Notes:      req.Notes,
	})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "appointment_failed", err)
		return
	}
	response.RespondOK(c, record)
}

func (th *TrackingHandler) ListAppointments(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	records, err := th.trackingService.ListAppointments(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "appointment_list_failed", err)
		return
	}
	response.RespondOK(c, records)
}
