package service

import (
	"context"
	"encoding/json"
	"testing"

	"rewear/internal/models"
	"rewear/internal/repository"
	"rewear/internal/webhook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(userRepo *userRepoStub) *UserService {
	return NewUserService(userRepo, noopItemRepo(), noopSwapRepo(), noopTokenRepo())
}

func userEvent(t *testing.T, eventType string, data map[string]interface{}) *webhook.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &webhook.Event{Type: eventType, Data: raw}
}

func TestUserService_ApplyWebhookEvent_Created(t *testing.T) {
	userRepo := noopUserRepo()
	var created *models.User
	userRepo.createFn = func(_ context.Context, user *models.User) error {
		created = user
		return nil
	}
	svc := newUserService(userRepo)

	ev := userEvent(t, webhook.EventUserCreated, map[string]interface{}{
		"id":              "user_abc",
		"email_addresses": []map[string]string{{"email_address": "ada@example.com"}},
		"first_name":      "Ada",
		"last_name":       "Lovelace",
		"image_url":       "https://img.example.com/ada.png",
	})
	require.NoError(t, svc.ApplyWebhookEvent(context.Background(), ev))

	require.NotNil(t, created)
	assert.Equal(t, "user_abc", created.ExternalID)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, models.UserStatusActive, created.Status)
	assert.Equal(t, models.UserRoleUser, created.Role)
}

func TestUserService_ApplyWebhookEvent_CreatedIsUpsert(t *testing.T) {
	userRepo := noopUserRepo()
	existing := &models.User{ID: 3, ExternalID: "user_abc", Email: "old@example.com"}
	userRepo.getByExternalIDFn = func(_ context.Context, _ string) (*models.User, error) {
		return existing, nil
	}
	userRepo.createFn = func(_ context.Context, _ *models.User) error {
		t.Fatal("replayed created event must update, not insert")
		return nil
	}
	var updated *models.User
	userRepo.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}
	svc := newUserService(userRepo)

	ev := userEvent(t, webhook.EventUserCreated, map[string]interface{}{
		"id":              "user_abc",
		"email_addresses": []map[string]string{{"email_address": "new@example.com"}},
		"first_name":      "Ada",
	})
	require.NoError(t, svc.ApplyWebhookEvent(context.Background(), ev))
	require.NotNil(t, updated)
	assert.Equal(t, "new@example.com", updated.Email)
}

func TestUserService_ApplyWebhookEvent_DeletedBansAndScrubs(t *testing.T) {
	userRepo := noopUserRepo()
	existing := &models.User{
		ID: 3, ExternalID: "user_abc",
		Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace",
		Bio: "hello", Location: "London",
		Status: models.UserStatusActive,
	}
	userRepo.getByExternalIDFn = func(_ context.Context, _ string) (*models.User, error) {
		return existing, nil
	}
	var updated *models.User
	userRepo.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}
	svc := newUserService(userRepo)

	ev := userEvent(t, webhook.EventUserDeleted, map[string]interface{}{
		"id": "user_abc", "deleted": true,
	})
	require.NoError(t, svc.ApplyWebhookEvent(context.Background(), ev))

	require.NotNil(t, updated)
	assert.Equal(t, models.UserStatusBanned, updated.Status)
	assert.Empty(t, updated.Email)
	assert.Empty(t, updated.FirstName)
	assert.Empty(t, updated.Bio)
	assert.Empty(t, updated.Location)
}

func TestUserService_ApplyWebhookEvent_DeleteUnknownUserIsNoop(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.updateFn = func(_ context.Context, _ *models.User) error {
		t.Fatal("no update expected for unknown user")
		return nil
	}
	svc := newUserService(userRepo)

	ev := userEvent(t, webhook.EventUserDeleted, map[string]interface{}{"id": "user_missing"})
	assert.NoError(t, svc.ApplyWebhookEvent(context.Background(), ev))
}

func TestUserService_ApplyWebhookEvent_UnknownTypeIgnored(t *testing.T) {
	svc := newUserService(noopUserRepo())
	ev := userEvent(t, "session.created", map[string]interface{}{"id": "sess_1"})
	assert.NoError(t, svc.ApplyWebhookEvent(context.Background(), ev))
}

func TestUserService_ApplyWebhookEvent_MissingIDRejected(t *testing.T) {
	svc := newUserService(noopUserRepo())
	ev := userEvent(t, webhook.EventUserCreated, map[string]interface{}{"first_name": "Ada"})
	err := svc.ApplyWebhookEvent(context.Background(), ev)
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}

func TestUserService_GetPublicProfile_BannedReads404(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Status: models.UserStatusBanned}, nil
	}
	svc := newUserService(userRepo)

	_, err := svc.GetPublicProfile(context.Background(), 3)
	assertAppErrCode(t, err, "NOT_FOUND")
}

func TestUserService_GetDashboard(t *testing.T) {
	userRepo := noopUserRepo()
	itemRepo := noopItemRepo()
	var gotFilter repository.ItemFilter
	itemRepo.listFn = func(_ context.Context, f repository.ItemFilter) ([]models.Item, int64, error) {
		gotFilter = f
		return []models.Item{{ID: 1}, {ID: 2, Status: models.ItemStatusSwapped}}, 2, nil
	}
	swapRepo := noopSwapRepo()
	swapRepo.listForUserFn = func(_ context.Context, _ uint, _ repository.SwapRole, _, _ int) ([]models.Swap, error) {
		return []models.Swap{
			{Status: models.SwapStatusPending},
			{Status: models.SwapStatusAccepted},
			{Status: models.SwapStatusCompleted},
		}, nil
	}
	tokenRepo := noopTokenRepo()
	tokenRepo.listForUserFn = func(_ context.Context, _ uint) ([]models.ClosetToken, error) {
		return []models.ClosetToken{{ItemType: models.CategoryTops}}, nil
	}
	svc := NewUserService(userRepo, itemRepo, swapRepo, tokenRepo)

	dash, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)

	// The owner's closet view opts into swapped and flagged items.
	assert.True(t, gotFilter.IncludeSwapped)
	assert.True(t, gotFilter.IncludeFlagged)
	assert.Equal(t, uint(7), gotFilter.UserID)

	assert.Len(t, dash.Items, 2)
	assert.Len(t, dash.Tokens, 1)
	assert.Equal(t, 1, dash.ActiveSwaps)
	assert.Equal(t, 1, dash.PendingSwaps)
}

func TestUserService_UpdateProfile(t *testing.T) {
	userRepo := noopUserRepo()
	var updated *models.User
	userRepo.updateFn = func(_ context.Context, user *models.User) error {
		updated = user
		return nil
	}
	svc := newUserService(userRepo)
	ctx := context.Background()

	bio := "Slow fashion enthusiast"
	_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 7, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)

	tooLong := string(make([]byte, maxBioLen+1))
	_, err = svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 7, Bio: &tooLong})
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}
