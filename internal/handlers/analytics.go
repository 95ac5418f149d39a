package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/requestdata"
	"github.com/prepmate/prepmate-backend/internal/services"
)

type AnalyticsHandler struct {
	log          *logger.Logger
	analyticsSvc services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsSvc services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:          log.With("handler", "AnalyticsHandler"),
		analyticsSvc: analyticsSvc,
	}
}

// GET /api/progress
func (ah *AnalyticsHandler) GetProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	overview, err := ah.analyticsSvc.GetProgress(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, overview)
}

type updateGoalsRequest struct {
	WeeklyGoal  *int `json:"weekly_goal" binding:"omitempty,gte=0"`
	MonthlyGoal *int `json:"monthly_goal" binding:"omitempty,gte=0"`
}

// PUT /api/progress/goals
func (ah *AnalyticsHandler) UpdateGoals(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req updateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	progress, err := ah.analyticsSvc.UpdateGoals(c.Request.Context(), rd.UserID, req.WeeklyGoal, req.MonthlyGoal)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// GET /api/analytics/performance?period_days=30
func (ah *AnalyticsHandler) GetPerformanceAnalytics(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	periodDays := 0
	if raw := c.Query("period_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_period_days", err)
			return
		}
		periodDays = parsed
	}
	analytics, err := ah.analyticsSvc.GetPerformanceAnalytics(c.Request.Context(), rd.UserID, periodDays)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analytics)
}

// GET /api/analytics/skills
func (ah *AnalyticsHandler) GetSkillAnalysis(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	analysis, err := ah.analyticsSvc.GetSkillAnalysis(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analysis)
}
