package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedbacks []*types.Feedback) ([]*types.Feedback, error)
	ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Feedback, error)
	// ListRecentOverallBySessionIDs returns the newest "overall" feedback rows
	// across the given sessions, newest first, capped at limit.
	ListRecentOverallBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, limit int) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedbacks []*types.Feedback) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(feedbacks) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (fr *feedbackRepo) ListBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feedback
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

func (fr *feedbackRepo) ListRecentOverallBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, limit int) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feedback
	if len(sessionIDs) == 0 {
		return results, nil
	}
	query := transaction.WithContext(ctx).
		Where("session_id IN ? AND type = ?", sessionIDs, types.FeedbackTypeOverall).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
