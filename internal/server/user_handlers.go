package server

import (
	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Bio       *string `json:"bio"`
		Location  *string `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Location:  req.Location,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyDashboard handles GET /api/users/me/dashboard
func (s *Server) GetMyDashboard(c *fiber.Ctx) error {
	userID := currentUserID(c)

	dashboard, err := s.userService.GetDashboard(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(dashboard)
}

// GetMyTokens handles GET /api/users/me/tokens
func (s *Server) GetMyTokens(c *fiber.Ctx) error {
	userID := currentUserID(c)

	tokens, err := s.userService.ListTokens(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tokens)
}

// GetMyLikes handles GET /api/users/me/likes
func (s *Server) GetMyLikes(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	likes, err := s.likeService.ListLiked(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(likes)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetPublicProfile(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}
