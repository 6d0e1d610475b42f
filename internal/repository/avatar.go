package repository

import (
	"context"
	"errors"

	"rewear/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvatarRepository defines persistence operations for user avatars.
type AvatarRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Avatar, error)
	Upsert(ctx context.Context, avatar *models.Avatar) error
}

type avatarRepository struct {
	db *gorm.DB
}

// NewAvatarRepository returns a new AvatarRepository implementation.
func NewAvatarRepository(db *gorm.DB) AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) GetByUserID(ctx context.Context, userID uint) (*models.Avatar, error) {
	var avatar models.Avatar
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&avatar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Avatar", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &avatar, nil
}

// Upsert saves the avatar, replacing any existing row for the same user. One
// avatar per user, enforced by the unique index on user_id.
func (r *avatarRepository) Upsert(ctx context.Context, avatar *models.Avatar) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"avatar_data", "clothing_items", "emoji_items", "drawing_strokes", "updated_at",
			}),
		}).
		Create(avatar).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
