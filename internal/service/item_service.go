package service

import (
	"context"
	"strings"

	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/valuation"
)

// MediaUploader is the slice of MediaService that ItemService depends on.
type MediaUploader interface {
	Store(in MediaUpload) (string, error)
}

type ItemService struct {
	repo  repository.ItemRepository
	media MediaUploader
}

type CreateItemInput struct {
	UserID      uint
	Title       string
	Description string
	Category    string
	Size        string
	Condition   string
	Tags        []string
	ListingType string
	Points      int
	HasPoints   bool

	// ImageURLs are already-hosted images passed through as-is; Uploads are
	// raw payloads pushed through the media pipeline.
	ImageURLs []string
	Uploads   []MediaUpload
}

type UpdateItemInput struct {
	UserID      uint
	ItemID      uint
	Title       *string
	Description *string
	Category    *string
	Size        *string
	Condition   *string
	Tags        []string
	ImageURLs   []string
}

type ListItemsInput struct {
	ViewerID       uint
	Category       string
	Size           string
	Condition      string
	ListingType    string
	Status         string
	Search         string
	UserID         uint
	MaxPoints      int
	MinPrice       float64
	MaxPrice       float64
	IncludeSwapped bool
	Sort           string
	Limit          int
	Offset         int
}

func NewItemService(repo repository.ItemRepository, media MediaUploader) *ItemService {
	return &ItemService{repo: repo, media: media}
}

const maxItemTitleLen = 200

// CreateItem validates the listing, values it, uploads its images and
// persists it. Every business rule is checked before the first write; the
// first violated rule short-circuits.
func (s *ItemService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxItemTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if in.Category == "" || !models.ValidCategory(in.Category) {
		return nil, models.NewValidationError("Invalid category")
	}
	if strings.TrimSpace(in.Size) == "" {
		return nil, models.NewValidationError("Size is required")
	}
	if in.Condition == "" || !models.ValidCondition(in.Condition) {
		return nil, models.NewValidationError("Invalid condition")
	}

	listingType := in.ListingType
	if listingType == "" {
		listingType = models.ListingTypeSwap
	}
	if !models.ValidListingType(listingType) {
		return nil, models.NewValidationError("Invalid listing type")
	}
	if listingType == models.ListingTypePoints && in.HasPoints && !valuation.ExplicitInRange(in.Points) {
		return nil, models.NewValidationError("Points must be between 1 and 999")
	}

	points := valuation.Compute(listingType, in.Category, in.Condition, in.Points, in.HasPoints)

	// Individual image failures are tolerated; the listing is created with
	// whatever uploaded successfully.
	images := append([]string(nil), in.ImageURLs...)
	for _, upload := range in.Uploads {
		url, err := s.media.Store(upload)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "listing image upload failed",
				"filename", upload.Filename, "error", err)
			continue
		}
		images = append(images, url)
	}

	item := &models.Item{
		UserID:      in.UserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Size:        in.Size,
		Condition:   in.Condition,
		Points:      points,
		Tags:        in.Tags,
		Images:      images,
		Status:      models.ItemStatusAvailable,
		ListingType: listingType,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	middleware.ItemsCreated.WithLabelValues(listingType).Inc()
	return item, nil
}

// GetItem returns one listing and counts the view.
func (s *ItemService) GetItem(ctx context.Context, itemID, viewerID uint) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, itemID, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, itemID); err != nil {
		middleware.Logger.WarnContext(ctx, "view counter update failed", "item_id", itemID, "error", err)
	}
	return item, nil
}

// ListItems translates the request filters into a repository query. The
// include-swapped flag is an owner-dashboard affordance: it is honored only
// when the caller is browsing their own closet.
func (s *ItemService) ListItems(ctx context.Context, in ListItemsInput) ([]models.Item, int64, error) {
	if in.Category != "" && !models.ValidCategory(in.Category) {
		return nil, 0, models.NewValidationError("Invalid category")
	}

	includeSwapped := in.IncludeSwapped && in.UserID != 0 && in.UserID == in.ViewerID

	items, total, err := s.repo.List(ctx, repository.ItemFilter{
		Category:       in.Category,
		Size:           in.Size,
		Condition:      in.Condition,
		ListingType:    in.ListingType,
		Status:         in.Status,
		Search:         strings.TrimSpace(in.Search),
		UserID:         in.UserID,
		ViewerID:       in.ViewerID,
		MaxPoints:      in.MaxPoints,
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		IncludeSwapped: includeSwapped,
		IncludeFlagged: includeSwapped, // owners see their own hidden items
		Sort:           in.Sort,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateItem applies partial edits. Only the owner may edit, and revaluing
// follows any category or condition change on swap listings.
func (s *ItemService) UpdateItem(ctx context.Context, in UpdateItemInput) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, in.ItemID, in.UserID)
	if err != nil {
		return nil, err
	}
	if item.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own items")
	}
	if item.Status == models.ItemStatusSwapped {
		return nil, models.NewStateError("Swapped items can no longer be edited")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > maxItemTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		item.Title = title
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			return nil, models.NewValidationError("Invalid category")
		}
		item.Category = *in.Category
	}
	if in.Condition != nil {
		if !models.ValidCondition(*in.Condition) {
			return nil, models.NewValidationError("Invalid condition")
		}
		item.Condition = *in.Condition
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Tags != nil {
		item.Tags = in.Tags
	}
	if in.ImageURLs != nil {
		item.Images = in.ImageURLs
	}

	if item.ListingType == models.ListingTypeSwap && (in.Category != nil || in.Condition != nil) {
		item.Points = valuation.Compute(item.ListingType, item.Category, item.Condition, 0, false)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes a listing. Owner only.
func (s *ItemService) DeleteItem(ctx context.Context, itemID, userID uint) error {
	item, err := s.repo.GetByID(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return models.NewForbiddenError("You can only delete your own items")
	}
	return s.repo.SoftDelete(ctx, itemID)
}

// RestoreItem returns a flagged or deleted listing to circulation. Admin
// moderation path; callers enforce the role.
func (s *ItemService) RestoreItem(ctx context.Context, itemID uint) (*models.Item, error) {
	return s.repo.Restore(ctx, itemID)
}
