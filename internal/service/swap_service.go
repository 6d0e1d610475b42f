package service

import (
	"context"

	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/repository"
)

type SwapService struct {
	swapRepo repository.SwapRepository
	itemRepo repository.ItemRepository
}

type CreateSwapInput struct {
	RequesterID   uint
	ItemID        uint
	OfferedItemID *uint
	PointsOffered int
	Message       string
}

type ActOnSwapInput struct {
	ActorID uint
	SwapID  uint
	Action  string
}

func NewSwapService(swapRepo repository.SwapRepository, itemRepo repository.ItemRepository) *SwapService {
	return &SwapService{swapRepo: swapRepo, itemRepo: itemRepo}
}

// CreateSwap proposes a swap against someone else's available item. All
// guards run before the insert; the first violated rule short-circuits.
func (s *SwapService) CreateSwap(ctx context.Context, in CreateSwapInput) (*models.Swap, error) {
	if in.RequesterID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}

	target, err := s.itemRepo.GetByID(ctx, in.ItemID, in.RequesterID)
	if err != nil {
		return nil, err
	}
	if target.UserID == in.RequesterID {
		return nil, models.NewValidationError("You cannot swap your own item")
	}
	if !target.Available() {
		return nil, models.NewValidationError("Item is not available for swapping")
	}

	if in.OfferedItemID != nil {
		offered, err := s.itemRepo.GetByID(ctx, *in.OfferedItemID, in.RequesterID)
		if err != nil {
			return nil, err
		}
		if offered.UserID != in.RequesterID {
			return nil, models.NewValidationError("Offered item must be your own")
		}
		if !offered.Available() {
			return nil, models.NewValidationError("Offered item is not available")
		}
	}
	if in.PointsOffered < 0 {
		return nil, models.NewValidationError("Points offered cannot be negative")
	}

	swap := &models.Swap{
		RequesterID:   in.RequesterID,
		OwnerID:       target.UserID,
		ItemID:        in.ItemID,
		OfferedItemID: in.OfferedItemID,
		PointsOffered: in.PointsOffered,
		Status:        models.SwapStatusPending,
		Message:       in.Message,
	}
	if err := s.swapRepo.Create(ctx, swap); err != nil {
		return nil, err
	}
	return s.swapRepo.GetByID(ctx, swap.ID)
}

// GetSwap returns a swap to one of its parties.
func (s *SwapService) GetSwap(ctx context.Context, swapID, userID uint) (*models.Swap, error) {
	swap, err := s.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if !swap.IsParty(userID) {
		return nil, models.NewForbiddenError("You are not a party to this swap")
	}
	return swap, nil
}

// ListSwaps returns swaps involving the caller, optionally filtered to the
// side they are on.
func (s *SwapService) ListSwaps(ctx context.Context, userID uint, role repository.SwapRole, limit, offset int) ([]models.Swap, error) {
	switch role {
	case repository.SwapRoleAny, repository.SwapRoleReceived, repository.SwapRoleMade:
	default:
		return nil, models.NewValidationError("Invalid swap filter type")
	}
	return s.swapRepo.ListForUser(ctx, userID, role, limit, offset)
}

// Act drives the swap state machine. Approve, reject and cancel are plain
// status updates; complete runs the transactional path that also retires the
// items and awards tokens. Sibling pending swaps against a now-swapped item
// are deliberately left queryable; any later approve-then-complete against
// them fails on the in-transaction availability check.
func (s *SwapService) Act(ctx context.Context, in ActOnSwapInput) (*models.Swap, error) {
	swap, err := s.swapRepo.GetByID(ctx, in.SwapID)
	if err != nil {
		return nil, err
	}

	next, err := swap.Transition(in.Action, in.ActorID)
	if err != nil {
		middleware.SwapTransitions.WithLabelValues(in.Action, "denied").Inc()
		return nil, err
	}

	if next == models.SwapStatusCompleted {
		done, err := s.swapRepo.Complete(ctx, swap.ID)
		if err != nil {
			middleware.SwapTransitions.WithLabelValues(in.Action, "error").Inc()
			return nil, err
		}
		middleware.SwapTransitions.WithLabelValues(in.Action, "applied").Inc()
		return s.swapRepo.GetByID(ctx, done.ID)
	}

	if err := s.swapRepo.UpdateStatus(ctx, swap.ID, next); err != nil {
		middleware.SwapTransitions.WithLabelValues(in.Action, "error").Inc()
		return nil, err
	}
	middleware.SwapTransitions.WithLabelValues(in.Action, "applied").Inc()
	swap.Status = next
	return swap, nil
}
