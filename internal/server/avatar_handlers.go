package server

import (
	"encoding/json"

	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyAvatar handles GET /api/users/me/avatar
func (s *Server) GetMyAvatar(c *fiber.Ctx) error {
	userID := currentUserID(c)

	avatar, err := s.avatarService.GetAvatar(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(avatar)
}

// SaveMyAvatar handles POST /api/users/me/avatar
func (s *Server) SaveMyAvatar(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		AvatarData     json.RawMessage `json:"avatar_data"`
		ClothingItems  json.RawMessage `json:"clothing_items"`
		EmojiItems     json.RawMessage `json:"emoji_items"`
		DrawingStrokes json.RawMessage `json:"drawing_strokes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	avatar, err := s.avatarService.SaveAvatar(c.UserContext(), service.SaveAvatarInput{
		UserID:         userID,
		AvatarData:     req.AvatarData,
		ClothingItems:  req.ClothingItems,
		EmojiItems:     req.EmojiItems,
		DrawingStrokes: req.DrawingStrokes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(avatar)
}
