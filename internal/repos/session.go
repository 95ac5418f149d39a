package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.InterviewSession) ([]*types.InterviewSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.InterviewSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *types.InterviewSession) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterviewSession, error)
	ListCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterviewSession, error)
	ListCompletedByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.InterviewSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.InterviewSession) ([]*types.InterviewSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(sessions) == 0 {
		return []*types.InterviewSession{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *sessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.InterviewSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InterviewSession
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) Update(ctx context.Context, tx *gorm.DB, session *types.InterviewSession) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(session).Error
}

func (sr *sessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterviewSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InterviewSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) ListCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.InterviewSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InterviewSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, types.SessionStatusCompleted).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) ListCompletedByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.InterviewSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.InterviewSession
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND status = ? AND completed_at >= ?", userID, types.SessionStatusCompleted, since).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
