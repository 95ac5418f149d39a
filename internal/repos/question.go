package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

// QuestionSortField is the closed set of columns a question listing may be
// ordered by. Anything else is rejected before it reaches SQL.
type QuestionSortField string

const (
	QuestionSortCreatedAt  QuestionSortField = "created_at"
	QuestionSortCategory   QuestionSortField = "category"
	QuestionSortDifficulty QuestionSortField = "difficulty"
)

func (f QuestionSortField) Valid() bool {
	switch f {
	case QuestionSortCreatedAt, QuestionSortCategory, QuestionSortDifficulty:
		return true
	}
	return false
}

type QuestionListParams struct {
	Type       types.InterviewType
	Category   string
	Difficulty string
	CompanyID  *uuid.UUID
	SortBy     QuestionSortField
	Descending bool
	Limit      int
}

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Question, error)
	List(ctx context.Context, tx *gorm.DB, params QuestionListParams) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.Question) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (qr *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.Question
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) List(ctx context.Context, tx *gorm.DB, params QuestionListParams) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Question{})
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Difficulty != "" {
		query = query.Where("difficulty = ?", params.Difficulty)
	}
	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = QuestionSortCreatedAt
	}
	order := string(sortBy)
	if params.Descending {
		order += " DESC"
	}
	query = query.Order(order)
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	var results []*types.Question
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
