package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/services"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type QuestionHandler struct {
	questionSvc services.QuestionService
}

func NewQuestionHandler(questionSvc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// GET /api/questions?type=technical&category=algorithms&sort_by=difficulty&order=desc
func (qh *QuestionHandler) ListQuestions(c *gin.Context) {
	params := repos.QuestionListParams{
		Type:       types.InterviewType(c.Query("type")),
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		SortBy:     repos.QuestionSortField(c.Query("sort_by")),
		Descending: c.Query("order") == "desc",
	}
	if raw := c.Query("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_company_id", err)
			return
		}
		params.CompanyID = &companyID
	}
	questions, err := qh.questionSvc.List(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": questions})
}
