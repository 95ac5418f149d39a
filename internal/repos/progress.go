package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/types"
)

type ProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) (*types.UserProgress, error)
	// GetByUserID returns (nil, nil) when no row exists so the caller can
	// create one lazily.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error)
	Update(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (pr *progressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (pr *progressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.UserProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *progressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(progress).Error
}
