package repository

import (
	"context"

	"rewear/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for closet tokens.
type TokenRepository interface {
	ListForUser(ctx context.Context, userID uint) ([]models.ClosetToken, error)
	CountForUser(ctx context.Context, userID uint) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) ListForUser(ctx context.Context, userID uint) ([]models.ClosetToken, error) {
	var tokens []models.ClosetToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}

func (r *tokenRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ClosetToken{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
