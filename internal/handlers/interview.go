package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/requestdata"
	"github.com/prepmate/prepmate-backend/internal/services"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type InterviewHandler struct {
	log          *logger.Logger
	interviewSvc services.InterviewService
}

func NewInterviewHandler(log *logger.Logger, interviewSvc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		log:          log.With("handler", "InterviewHandler"),
		interviewSvc: interviewSvc,
	}
}

type startSessionRequest struct {
	Type        types.InterviewType `json:"type" binding:"required"`
	CompanyID   *uuid.UUID          `json:"company_id"`
	QuestionIDs []uuid.UUID         `json:"question_ids"`
}

// POST /api/interviews
func (ih *InterviewHandler) StartSession(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	session, err := ih.interviewSvc.StartSession(c.Request.Context(), rd.UserID, services.StartSessionInput{
		Type:        req.Type,
		CompanyID:   req.CompanyID,
		QuestionIDs: req.QuestionIDs,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

type submitAnswerRequest struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	UserAnswer     *string   `json:"user_answer"`
	CodeSubmission *string   `json:"code_submission"`
	TimeSpent      int       `json:"time_spent" binding:"gte=0"`
}

// POST /api/interviews/:id/responses
func (ih *InterviewHandler) SubmitAnswer(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	result, err := ih.interviewSvc.SubmitAnswer(c.Request.Context(), rd.UserID, services.SubmitAnswerInput{
		SessionID:      sessionID,
		QuestionID:     req.QuestionID,
		UserAnswer:     req.UserAnswer,
		CodeSubmission: req.CodeSubmission,
		TimeSpent:      req.TimeSpent,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// POST /api/interviews/:id/complete
func (ih *InterviewHandler) CompleteSession(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return
	}
	session, err := ih.interviewSvc.CompleteSession(c.Request.Context(), rd.UserID, sessionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// GET /api/interviews
func (ih *InterviewHandler) ListSessions(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sessions, err := ih.interviewSvc.ListSessions(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}
