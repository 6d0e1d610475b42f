package service

import (
	"context"
	"encoding/json"

	"rewear/internal/models"
	"rewear/internal/repository"
)

type AvatarService struct {
	repo repository.AvatarRepository
}

type SaveAvatarInput struct {
	UserID         uint
	AvatarData     json.RawMessage
	ClothingItems  json.RawMessage
	EmojiItems     json.RawMessage
	DrawingStrokes json.RawMessage
}

func NewAvatarService(repo repository.AvatarRepository) *AvatarService {
	return &AvatarService{repo: repo}
}

const maxAvatarPayloadBytes = 256 * 1024

func (s *AvatarService) GetAvatar(ctx context.Context, userID uint) (*models.Avatar, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// SaveAvatar validates and upserts the caller's avatar. The layer payloads
// are opaque client JSON; the server only checks they parse and stay small.
func (s *AvatarService) SaveAvatar(ctx context.Context, in SaveAvatarInput) (*models.Avatar, error) {
	if len(in.AvatarData) == 0 {
		return nil, models.NewValidationError("Avatar data is required")
	}
	for _, payload := range []json.RawMessage{in.AvatarData, in.ClothingItems, in.EmojiItems, in.DrawingStrokes} {
		if len(payload) == 0 {
			continue
		}
		if len(payload) > maxAvatarPayloadBytes {
			return nil, models.NewValidationError("Avatar payload too large")
		}
		if !json.Valid(payload) {
			return nil, models.NewValidationError("Avatar payload is not valid JSON")
		}
	}

	avatar := &models.Avatar{
		UserID:         in.UserID,
		AvatarData:     in.AvatarData,
		ClothingItems:  in.ClothingItems,
		EmojiItems:     in.EmojiItems,
		DrawingStrokes: in.DrawingStrokes,
	}
	if err := s.repo.Upsert(ctx, avatar); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, in.UserID)
}
