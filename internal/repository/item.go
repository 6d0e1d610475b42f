package repository

import (
	"context"
	"errors"

	"rewear/internal/cache"
	"rewear/internal/models"

	"gorm.io/gorm"
)

// ItemFilter narrows a listing query. Zero values mean "no constraint".
type ItemFilter struct {
	Category    string
	Size        string
	Condition   string
	ListingType string
	Status      string
	Search      string
	UserID      uint // restrict to one owner's closet
	ViewerID    uint // used to compute Liked; 0 for anonymous
	MaxPoints   int
	MinPrice    float64
	MaxPrice    float64

	// IncludeSwapped keeps swapped items in the result. Deleted items are
	// never returned regardless; profile and dashboard views set this so a
	// user's swap history stays visible.
	IncludeSwapped bool
	// IncludeFlagged keeps auto-hidden items in the result (admin review and
	// the owner's own closet).
	IncludeFlagged bool

	Sort   string
	Limit  int
	Offset int
}

// ItemRepository defines persistence operations for item listings.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error)
	Update(ctx context.Context, item *models.Item) error
	SoftDelete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) (*models.Item, error)
	ListFlagged(ctx context.Context, limit, offset int) ([]models.Item, error)
	Count(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository returns a new ItemRepository implementation.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

const likesCountExpr = "(SELECT COUNT(*) FROM likes WHERE likes.item_id = items.id) AS likes_count"

func (r *itemRepository) selectWithLikes(ctx context.Context, viewerID uint) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Item{})
	if viewerID == 0 {
		return q.Select("items.*, " + likesCountExpr + ", false AS liked")
	}
	return q.Select(
		"items.*, "+likesCountExpr+
			", EXISTS(SELECT 1 FROM likes WHERE likes.item_id = items.id AND likes.user_id = ?) AS liked",
		viewerID,
	)
}

// applyFilter attaches the filter's WHERE conditions. Deleted items are
// excluded unconditionally; there is no flag to surface them. An explicit
// status filter replaces the default swapped/flagged exclusions, so asking
// for swapped items returns them.
func applyFilter(q *gorm.DB, f ItemFilter) *gorm.DB {
	q = q.Where("items.status <> ?", models.ItemStatusDeleted)
	if f.Status != "" {
		q = q.Where("items.status = ?", f.Status)
	} else {
		if !f.IncludeSwapped {
			q = q.Where("items.status <> ?", models.ItemStatusSwapped)
		}
		if !f.IncludeFlagged {
			q = q.Where("items.status <> ?", models.ItemStatusFlagged)
		}
	}
	if f.UserID != 0 {
		q = q.Where("items.user_id = ?", f.UserID)
	}
	if f.Category != "" {
		q = q.Where("items.category = ?", f.Category)
	}
	if f.Size != "" {
		q = q.Where("items.size = ?", f.Size)
	}
	if f.Condition != "" {
		q = q.Where("items.condition = ?", f.Condition)
	}
	if f.ListingType != "" {
		q = q.Where("items.listing_type = ?", f.ListingType)
	}
	if f.MaxPoints > 0 {
		q = q.Where("items.points <= ?", f.MaxPoints)
	}
	if f.MinPrice > 0 {
		q = q.Where("items.price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("items.price <= ?", f.MaxPrice)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("items.title LIKE ? OR items.description LIKE ?", pattern, pattern)
	}
	return q
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.BrowseKey())
	return nil
}

// GetByID loads one item with its owner preloaded and like counts computed
// for the given viewer. Deleted items read as not found.
func (r *itemRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Item, error) {
	var item models.Item
	err := r.selectWithLikes(ctx, viewerID).
		Preload("User").
		Where("items.id = ? AND items.status <> ?", id, models.ItemStatusDeleted).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Item", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, int64, error) {
	var total int64
	counter := applyFilter(r.db.WithContext(ctx).Model(&models.Item{}), filter)
	if err := counter.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var items []models.Item
	err := applyFilter(r.selectWithLikes(ctx, filter.ViewerID), filter).
		Preload("User").
		Order(sortOrder(filter.Sort)).
		Limit(limit).Offset(filter.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func sortOrder(sort string) string {
	switch sort {
	case "oldest":
		return "items.created_at ASC"
	case "points-high":
		return "items.points DESC"
	case "points-low":
		return "items.points ASC"
	case "popular":
		return "likes_count DESC, items.views DESC"
	default:
		return "items.created_at DESC"
	}
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateItem(ctx, item.ID)
	return nil
}

// SoftDelete marks an item deleted. The row stays so completed swap records
// referencing it keep resolving.
func (r *itemRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND status <> ?", id, models.ItemStatusDeleted).
		Update("status", models.ItemStatusDeleted)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Item", id)
	}
	cache.InvalidateItem(ctx, id)
	return nil
}

func (r *itemRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Restore returns a moderated (flagged or deleted) item to circulation and
// clears its report tally.
func (r *itemRepository) Restore(ctx context.Context, id uint) (*models.Item, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND status IN ?", id, []string{models.ItemStatusFlagged, models.ItemStatusDeleted}).
		Updates(map[string]interface{}{
			"status":       models.ItemStatusAvailable,
			"flagged":      false,
			"report_count": 0,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Item", id)
	}
	cache.InvalidateItem(ctx, id)

	var item models.Item
	if err := r.db.WithContext(ctx).Preload("User").First(&item, id).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *itemRepository) ListFlagged(ctx context.Context, limit, offset int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.ItemStatusFlagged).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("status <> ?", models.ItemStatusDeleted).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
