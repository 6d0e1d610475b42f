package server

import (
	"strings"

	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateSwap handles POST /api/swaps
func (s *Server) CreateSwap(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		ItemID        uint   `json:"item_id"`
		OfferedItemID *uint  `json:"offered_item_id"`
		PointsOffered int    `json:"points_offered"`
		Message       string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ItemID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Item is required"))
	}

	swap, err := s.swapService.CreateSwap(c.UserContext(), service.CreateSwapInput{
		RequesterID:   userID,
		ItemID:        req.ItemID,
		OfferedItemID: req.OfferedItemID,
		PointsOffered: req.PointsOffered,
		Message:       strings.TrimSpace(req.Message),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(swap)
}

// GetSwaps handles GET /api/swaps?type=received|made
func (s *Server) GetSwaps(c *fiber.Ctx) error {
	userID := currentUserID(c)
	page := parsePagination(c, 20)
	role := repository.SwapRole(c.Query("type"))

	swaps, err := s.swapService.ListSwaps(c.UserContext(), userID, role, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(swaps)
}

// GetSwap handles GET /api/swaps/:id
func (s *Server) GetSwap(c *fiber.Ctx) error {
	userID := currentUserID(c)
	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	swap, err := s.swapService.GetSwap(c.UserContext(), swapID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(swap)
}

// ActOnSwap handles PATCH /api/swaps/:id
// The body carries one action: approve, reject, cancel or complete.
func (s *Server) ActOnSwap(c *fiber.Ctx) error {
	userID := currentUserID(c)
	swapID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Action string `json:"action"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Action == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Action is required"))
	}

	swap, err := s.swapService.Act(c.UserContext(), service.ActOnSwapInput{
		ActorID: userID,
		SwapID:  swapID,
		Action:  req.Action,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(swap)
}
