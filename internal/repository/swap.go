package repository

import (
	"context"
	"errors"

	"rewear/internal/cache"
	"rewear/internal/models"

	"gorm.io/gorm"
)

// SwapRole filters ListForUser by which side of the swap the user is on.
type SwapRole string

const (
	SwapRoleAny      SwapRole = ""
	SwapRoleReceived SwapRole = "received" // user is the item owner
	SwapRoleMade     SwapRole = "made"     // user is the requester
)

// SwapRepository defines persistence operations for swaps.
type SwapRepository interface {
	Create(ctx context.Context, swap *models.Swap) error
	GetByID(ctx context.Context, id uint) (*models.Swap, error)
	ListForUser(ctx context.Context, userID uint, role SwapRole, limit, offset int) ([]models.Swap, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Complete(ctx context.Context, swapID uint) (*models.Swap, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type swapRepository struct {
	db *gorm.DB
}

// NewSwapRepository returns a new SwapRepository implementation.
func NewSwapRepository(db *gorm.DB) SwapRepository {
	return &swapRepository{db: db}
}

func (r *swapRepository) Create(ctx context.Context, swap *models.Swap) error {
	if err := r.db.WithContext(ctx).Create(swap).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads a swap with both parties and both items so clients can render
// swap cards without further round trips.
func (r *swapRepository) GetByID(ctx context.Context, id uint) (*models.Swap, error) {
	var swap models.Swap
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("Item").
		Preload("OfferedItem").
		First(&swap, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &swap, nil
}

// ListForUser returns swaps where the user is a party. Terminal swaps are
// included; history stays queryable.
func (r *swapRepository) ListForUser(ctx context.Context, userID uint, role SwapRole, limit, offset int) ([]models.Swap, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("Item").
		Preload("OfferedItem")

	switch role {
	case SwapRoleReceived:
		q = q.Where("owner_id = ?", userID)
	case SwapRoleMade:
		q = q.Where("requester_id = ?", userID)
	default:
		q = q.Where("owner_id = ? OR requester_id = ?", userID, userID)
	}

	var swaps []models.Swap
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&swaps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return swaps, nil
}

func (r *swapRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Swap{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Swap", id)
	}
	return nil
}

// Complete applies every effect of a finished swap in one transaction: the
// swap becomes completed, both items become swapped, both users' swap
// counters advance, and each party earns a closet token for the garment they
// gave up. A crash mid-way rolls the whole thing back.
func (r *swapRepository) Complete(ctx context.Context, swapID uint) (*models.Swap, error) {
	var swap models.Swap

	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Item").Preload("OfferedItem").First(&swap, swapID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Swap", swapID)
			}
			return models.NewInternalError(err)
		}
		if swap.Status != models.SwapStatusAccepted {
			return models.NewStateError("Can only complete accepted swaps")
		}
		// A sibling swap may have retired the item since acceptance; the
		// availability re-check runs inside the transaction so only one
		// completion can ever win.
		if swap.Item != nil && swap.Item.Status == models.ItemStatusSwapped {
			return models.NewStateError("Item has already been swapped")
		}

		if err := tx.Model(&models.Swap{}).
			Where("id = ?", swap.ID).
			Update("status", models.SwapStatusCompleted).Error; err != nil {
			return models.NewInternalError(err)
		}

		itemIDs := []uint{swap.ItemID}
		if swap.OfferedItemID != nil {
			itemIDs = append(itemIDs, *swap.OfferedItemID)
		}
		if err := tx.Model(&models.Item{}).
			Where("id IN ?", itemIDs).
			Update("status", models.ItemStatusSwapped).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Model(&models.User{}).
			Where("id IN ?", []uint{swap.OwnerID, swap.RequesterID}).
			UpdateColumn("total_swaps", gorm.Expr("total_swaps + 1")).Error; err != nil {
			return models.NewInternalError(err)
		}

		tokens := completionTokens(&swap)
		if len(tokens) > 0 {
			if err := tx.Create(&tokens).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		swap.Status = models.SwapStatusCompleted
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}

	cache.InvalidateItem(ctx, swap.ItemID)
	if swap.OfferedItemID != nil {
		cache.InvalidateItem(ctx, *swap.OfferedItemID)
	}
	cache.InvalidateUser(ctx, swap.OwnerID)
	cache.InvalidateUser(ctx, swap.RequesterID)

	return &swap, nil
}

// completionTokens builds the closet tokens earned by a completed swap. The
// owner always gave up the target item. The requester earns one only when
// they offered an item of their own; points and donation requests trade
// nothing away.
func completionTokens(swap *models.Swap) []models.ClosetToken {
	var tokens []models.ClosetToken
	swapID := swap.ID

	if swap.Item != nil {
		tokens = append(tokens, models.ClosetToken{
			UserID:   swap.OwnerID,
			ItemType: swap.Item.Category,
			Emoji:    models.TokenEmoji(swap.Item.Category),
			ItemName: swap.Item.Title,
			SwapID:   &swapID,
		})
	}
	if swap.OfferedItem != nil {
		tokens = append(tokens, models.ClosetToken{
			UserID:   swap.RequesterID,
			ItemType: swap.OfferedItem.Category,
			Emoji:    models.TokenEmoji(swap.OfferedItem.Category),
			ItemName: swap.OfferedItem.Title,
			SwapID:   &swapID,
		})
	}
	return tokens
}

func (r *swapRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Swap{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
