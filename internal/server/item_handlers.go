package server

import (
	"io"
	"strings"

	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

// itemListResponse wraps a page of listings with the total match count so
// clients can render pagination.
type itemListResponse struct {
	Items []models.Item `json:"items"`
	Total int64         `json:"total"`
}

// CreateItem handles POST /api/items
//
// Accepts either a JSON body with image_urls, or multipart/form-data where
// each "images" part is run through the media pipeline.
func (s *Server) CreateItem(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Title       string   `json:"title" form:"title"`
		Description string   `json:"description" form:"description"`
		Category    string   `json:"category" form:"category"`
		Size        string   `json:"size" form:"size"`
		Condition   string   `json:"condition" form:"condition"`
		Tags        []string `json:"tags" form:"tags"`
		ListingType string   `json:"listing_type" form:"listing_type"`
		Points      *int     `json:"points" form:"points"`
		ImageURLs   []string `json:"image_urls" form:"image_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateItemInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Tags:        req.Tags,
		ListingType: req.ListingType,
		ImageURLs:   req.ImageURLs,
	}
	if req.Points != nil {
		in.Points = *req.Points
		in.HasPoints = true
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			src, err := fh.Open()
			if err != nil {
				continue
			}
			content, err := io.ReadAll(src)
			_ = src.Close()
			if err != nil {
				continue
			}
			in.Uploads = append(in.Uploads, service.MediaUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     content,
			})
		}
	}

	item, err := s.itemService.CreateItem(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItems handles GET /api/items
func (s *Server) GetItems(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	items, total, err := s.itemService.ListItems(c.UserContext(), service.ListItemsInput{
		ViewerID:       viewerID,
		Category:       c.Query("category"),
		Size:           c.Query("size"),
		Condition:      c.Query("condition"),
		ListingType:    c.Query("listing_type"),
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		UserID:         uint(c.QueryInt("user_id", c.QueryInt("userId", 0))),
		MaxPoints:      c.QueryInt("max_points", c.QueryInt("maxPoints", 0)),
		MinPrice:       c.QueryFloat("min_price", c.QueryFloat("minPrice", 0)),
		MaxPrice:       c.QueryFloat("max_price", c.QueryFloat("maxPrice", 0)),
		IncludeSwapped: c.QueryBool("include_swapped", false),
		Sort:           c.Query("sort"),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(itemListResponse{Items: items, Total: total})
}

// GetItem handles GET /api/items/:id
func (s *Server) GetItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	item, err := s.itemService.GetItem(c.UserContext(), id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(item)
}

// UpdateItem handles PUT /api/items/:id
func (s *Server) UpdateItem(c *fiber.Ctx) error {
	userID := currentUserID(c)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Size        *string  `json:"size"`
		Condition   *string  `json:"condition"`
		Tags        []string `json:"tags"`
		ImageURLs   []string `json:"image_urls"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.itemService.UpdateItem(c.UserContext(), service.UpdateItemInput{
		UserID:      userID,
		ItemID:      itemID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Tags:        req.Tags,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(item)
}

// DeleteItem handles DELETE /api/items/:id
func (s *Server) DeleteItem(c *fiber.Ctx) error {
	userID := currentUserID(c)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.itemService.DeleteItem(c.UserContext(), itemID, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/items/:id/like
// If already liked, it unlikes; if not liked, it likes.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := currentUserID(c)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, count, err := s.likeService.ToggleLike(c.UserContext(), userID, itemID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": count,
	})
}

// CreateReport handles POST /api/items/:id/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	userID := currentUserID(c)
	itemID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.CreateReport(c.UserContext(), service.CreateReportInput{
		ReporterID:  userID,
		ItemID:      itemID,
		Reason:      strings.TrimSpace(req.Reason),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}
