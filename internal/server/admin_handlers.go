package server

import (
	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminStats is the response for the moderation overview panel.
type AdminStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalItems     int64 `json:"total_items"`
	PendingSwaps   int64 `json:"pending_swaps"`
	CompletedSwaps int64 `json:"completed_swaps"`
}

// GetAdminStats handles GET /api/admin/stats
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	items, err := s.itemRepo.Count(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	pending, err := s.swapRepo.CountByStatus(ctx, models.SwapStatusPending)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	completed, err := s.swapRepo.CountByStatus(ctx, models.SwapStatusCompleted)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(AdminStats{
		TotalUsers:     users,
		TotalItems:     items,
		PendingSwaps:   pending,
		CompletedSwaps: completed,
	})
}

// GetAdminUsers handles GET /api/admin/users
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userRepo.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(users)
}

// GetFlaggedItems handles GET /api/admin/items/flagged
func (s *Server) GetFlaggedItems(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	items, err := s.itemRepo.ListFlagged(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(items)
}

// GetReports handles GET /api/admin/reports?status=pending
func (s *Server) GetReports(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	reports, err := s.reportService.ListReports(c.UserContext(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(reports)
}

// ReviewReport handles PATCH /api/admin/reports/:id
func (s *Server) ReviewReport(c *fiber.Ctx) error {
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.ReviewReport(c.UserContext(), service.ReviewReportInput{
		ReportID: reportID,
		Status:   req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(report)
}

// RestoreItem handles POST /api/admin/items/:id/restore
func (s *Server) RestoreItem(c *fiber.Ctx) error {
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, err := s.itemService.RestoreItem(c.UserContext(), itemID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(item)
}
