package repository

import (
	"context"

	"rewear/internal/cache"
	"rewear/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for item likes.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, itemID uint) (liked bool, err error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error)
	Count(ctx context.Context, itemID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle flips the like state for (user, item) and reports the new state.
// The ON CONFLICT guard makes a double-submit of the same like a no-op
// instead of an error.
func (r *likeRepository) Toggle(ctx context.Context, userID, itemID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateItem(ctx, itemID)
		return false, nil
	}

	like := models.Like{UserID: userID, ItemID: itemID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	cache.InvalidateItem(ctx, itemID)
	return true, nil
}

// ListForUser returns the user's likes with the liked item preloaded, newest
// first.
func (r *likeRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var likes []models.Like
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) Count(ctx context.Context, itemID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("item_id = ?", itemID).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
