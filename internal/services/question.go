package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	pkgerrors "github.com/prepmate/prepmate-backend/internal/pkg/errors"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type QuestionService interface {
	List(ctx context.Context, params repos.QuestionListParams) ([]*types.Question, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo) QuestionService {
	return &questionService{db: db, log: log.With("service", "QuestionService"), questionRepo: questionRepo}
}

func (qs *questionService) List(ctx context.Context, params repos.QuestionListParams) ([]*types.Question, error) {
	if params.SortBy != "" && !params.SortBy.Valid() {
		return nil, fmt.Errorf("%w: sort field %q", pkgerrors.ErrInvalidArgument, params.SortBy)
	}
	if params.Type != "" && !params.Type.Valid() {
		return nil, fmt.Errorf("%w: interview type %q", pkgerrors.ErrInvalidArgument, params.Type)
	}
	return qs.questionRepo.List(ctx, nil, params)
}
