package service

import (
	"context"
	"strings"

	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/webhook"
)

type UserService struct {
	userRepo  repository.UserRepository
	itemRepo  repository.ItemRepository
	swapRepo  repository.SwapRepository
	tokenRepo repository.TokenRepository
}

type UpdateProfileInput struct {
	UserID    uint
	FirstName *string
	LastName  *string
	Bio       *string
	Location  *string
}

// Dashboard aggregates everything the signed-in user's home view renders:
// their closet including swapped history, point balance and earned tokens.
type Dashboard struct {
	User         *models.User         `json:"user"`
	Items        []models.Item        `json:"items"`
	Tokens       []models.ClosetToken `json:"tokens"`
	ActiveSwaps  int                  `json:"active_swaps"`
	PendingSwaps int                  `json:"pending_swaps"`
}

func NewUserService(
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	swapRepo repository.SwapRepository,
	tokenRepo repository.TokenRepository,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		itemRepo:  itemRepo,
		swapRepo:  swapRepo,
		tokenRepo: tokenRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicProfile returns the subset of a user safe to show to strangers.
func (s *UserService) GetPublicProfile(ctx context.Context, id uint) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusBanned {
		return nil, models.NewNotFoundError("User", id)
	}
	profile := user.Public()
	return &profile, nil
}

const maxBioLen = 500

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetDashboard builds the owner's home view. The closet query opts into
// swapped and flagged items so the user's full history stays visible to them.
func (s *UserService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, _, err := s.itemRepo.List(ctx, repository.ItemFilter{
		UserID:         userID,
		ViewerID:       userID,
		IncludeSwapped: true,
		IncludeFlagged: true,
		Limit:          100,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.tokenRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	swaps, err := s.swapRepo.ListForUser(ctx, userID, repository.SwapRoleAny, 100, 0)
	if err != nil {
		return nil, err
	}
	var active, pending int
	for _, sw := range swaps {
		switch sw.Status {
		case models.SwapStatusAccepted:
			active++
		case models.SwapStatusPending:
			pending++
		}
	}

	return &Dashboard{
		User:         user,
		Items:        items,
		Tokens:       tokens,
		ActiveSwaps:  active,
		PendingSwaps: pending,
	}, nil
}

func (s *UserService) ListTokens(ctx context.Context, userID uint) ([]models.ClosetToken, error) {
	return s.tokenRepo.ListForUser(ctx, userID)
}

// ApplyWebhookEvent mirrors one verified auth provider event onto the local
// user table. Creation is an upsert so replays and out-of-order
// created/updated pairs converge to the same row; deletion bans and scrubs
// rather than removing, preserving swap history integrity.
func (s *UserService) ApplyWebhookEvent(ctx context.Context, ev *webhook.Event) error {
	data, err := ev.UserData()
	if err != nil {
		middleware.WebhookEvents.WithLabelValues(ev.Type, "malformed").Inc()
		return models.NewValidationError("Malformed webhook payload")
	}
	if data.ID == "" {
		middleware.WebhookEvents.WithLabelValues(ev.Type, "malformed").Inc()
		return models.NewValidationError("Webhook payload missing user id")
	}

	switch ev.Type {
	case webhook.EventUserCreated, webhook.EventUserUpdated:
		err = s.upsertFromProvider(ctx, data)
	case webhook.EventUserDeleted:
		err = s.banFromProvider(ctx, data.ID)
	default:
		// Unknown event types are acknowledged and dropped so the provider
		// does not retry them forever.
		middleware.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
		return nil
	}

	if err != nil {
		middleware.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
		return err
	}
	middleware.WebhookEvents.WithLabelValues(ev.Type, "applied").Inc()
	return nil
}

func (s *UserService) upsertFromProvider(ctx context.Context, data webhook.UserData) error {
	user, err := s.userRepo.GetByExternalID(ctx, data.ID)
	if err != nil {
		return err
	}

	if user == nil {
		return s.userRepo.Create(ctx, &models.User{
			ExternalID: data.ID,
			Email:      data.PrimaryEmail(),
			FirstName:  data.FirstName,
			LastName:   data.LastName,
			ImageURL:   data.ImageURL,
			Rating:     5.0,
			Status:     models.UserStatusActive,
			Role:       models.UserRoleUser,
		})
	}

	if email := data.PrimaryEmail(); email != "" {
		user.Email = email
	}
	user.FirstName = data.FirstName
	user.LastName = data.LastName
	user.ImageURL = data.ImageURL
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) banFromProvider(ctx context.Context, externalID string) error {
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return err
	}
	if user == nil {
		// Deletion of a user we never saw is a no-op, not an error.
		return nil
	}

	user.Status = models.UserStatusBanned
	user.Email = ""
	user.FirstName = ""
	user.LastName = ""
	user.ImageURL = ""
	user.Bio = ""
	user.Location = ""
	return s.userRepo.Update(ctx, user)
}
