package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type ResponseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, responses []*types.InterviewResponse) ([]*types.InterviewResponse, error)
	ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.InterviewResponse, error)
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (rr *responseRepo) Create(ctx context.Context, tx *gorm.DB, responses []*types.InterviewResponse) ([]*types.InterviewResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(responses) == 0 {
		return []*types.InterviewResponse{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (rr *responseRepo) ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.InterviewResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.InterviewResponse
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
