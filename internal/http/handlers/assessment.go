package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/http/response"
	"github.com/lunacare/lunacare-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

func (ah *AssessmentHandler) Run(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Age          int     `json:"age" binding:"required"`
		Weight       float64 `json:"weight" binding:"required"`
		Height       float64 `json:"height" binding:"required"`
		CycleRegular bool    `json:"cycleRegular"`
		WeightGain   bool    `json:"weightGain"`
		HairGrowth   bool    `json:"hairGrowth"`
		Acne         bool    `json:"acne"`
		FastFood     bool    `json:"fastFood"`
		Exercise     bool    `json:"exercise"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, record, err := ah.assessmentService.Run(c.Request.Context(), userID, domain.AssessmentInput{
		Age:          req.Age,
		Weight:       req.Weight,
		Height:       req.Height,
		CycleRegular: req.CycleRegular,
		WeightGain:   req.WeightGain,
		HairGrowth:   req.HairGrowth,
		Acne:         req.Acne,
		FastFood:     req.FastFood,
		Exercise:     req.Exercise,
	})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "assessment_failed", err)
		return
	}
	// A scoring failure is a valid response: the page must check success
	// before treating the result as usable.
	response.RespondOK(c, gin.H{"result": result, "record": record})
}

func (ah *AssessmentHandler) History(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	limit := intQuery(c, "limit", repos.DefaultAssessmentListLimit)
	records, err := ah.assessmentService.History(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "assessment_history_failed", err)
		return
	}
	response.RespondOK(c, records)
}

func (ah *AssessmentHandler) Latest(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	record, err := ah.assessmentService.Latest(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "assessment_latest_failed", err)
		return
	}
	response.RespondOK(c, record)
}

func (ah *AssessmentHandler) Predictions(c *gin.Context) {
	userID, err := ownerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	limit := intQuery(c, "limit", repos.DefaultPredictionListLimit)
	rows, err := ah.assessmentService.Predictions(c.Request.Context(), userID, c.Query("type"), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "predictions_failed", err)
		return
	}
	response.RespondOK(c, rows)
}

func (ah *AssessmentHandler) ModelInfo(c *gin.Context) {
	response.RespondOK(c, ah.assessmentService.ModelInfo(c.Request.Context()))
}
