package service

import (
	"context"

	"rewear/internal/models"
	"rewear/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	itemRepo repository.ItemRepository
}

func NewLikeService(likeRepo repository.LikeRepository, itemRepo repository.ItemRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, itemRepo: itemRepo}
}

// ToggleLike flips the caller's like on an item and returns the new state
// with the updated count.
func (s *LikeService) ToggleLike(ctx context.Context, userID, itemID uint) (liked bool, count int64, err error) {
	// The item must exist and be visible; liking a deleted item 404s.
	if _, err := s.itemRepo.GetByID(ctx, itemID, userID); err != nil {
		return false, 0, err
	}

	liked, err = s.likeRepo.Toggle(ctx, userID, itemID)
	if err != nil {
		return false, 0, err
	}
	count, err = s.likeRepo.Count(ctx, itemID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// ListLiked returns the items the user has liked.
func (s *LikeService) ListLiked(ctx context.Context, userID uint, limit, offset int) ([]models.Like, error) {
	return s.likeRepo.ListForUser(ctx, userID, limit, offset)
}
