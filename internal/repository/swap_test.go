package repository

import (
	"context"
	"testing"

	"rewear/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "user_owner")
	requester := createTestUser(t, db, "user_requester")
	target := createTestItem(t, db, owner.ID)
	offered := createTestItem(t, db, requester.ID, func(i *models.Item) {
		i.Title = "Wool scarf"
		i.Category = models.CategoryAccessories
	})

	swap := &models.Swap{
		RequesterID:   requester.ID,
		OwnerID:       owner.ID,
		ItemID:        target.ID,
		OfferedItemID: &offered.ID,
		Status:        models.SwapStatusPending,
		Message:       "Trade for my scarf?",
	}
	require.NoError(t, repo.Create(ctx, swap))
	require.NotZero(t, swap.ID)

	got, err := repo.GetByID(ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusPending, got.Status)
	if assert.NotNil(t, got.Requester) {
		assert.Equal(t, requester.ID, got.Requester.ID)
	}
	if assert.NotNil(t, got.Owner) {
		assert.Equal(t, owner.ID, got.Owner.ID)
	}
	if assert.NotNil(t, got.Item) {
		assert.Equal(t, target.ID, got.Item.ID)
	}
	if assert.NotNil(t, got.OfferedItem) {
		assert.Equal(t, offered.ID, got.OfferedItem.ID)
	}
}

func TestSwapRepository_ListForUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "user_alice")
	bob := createTestUser(t, db, "user_bob")
	carol := createTestUser(t, db, "user_carol")

	aliceItem := createTestItem(t, db, alice.ID)
	bobItem := createTestItem(t, db, bob.ID)

	// Alice receives one from Bob and makes one toward Bob.
	received := &models.Swap{RequesterID: bob.ID, OwnerID: alice.ID, ItemID: aliceItem.ID, Status: models.SwapStatusPending}
	made := &models.Swap{RequesterID: alice.ID, OwnerID: bob.ID, ItemID: bobItem.ID, Status: models.SwapStatusRejected}
	require.NoError(t, repo.Create(ctx, received))
	require.NoError(t, repo.Create(ctx, made))

	all, err := repo.ListForUser(ctx, alice.ID, SwapRoleAny, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2) // terminal swaps stay in history

	got, err := repo.ListForUser(ctx, alice.ID, SwapRoleReceived, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, received.ID, got[0].ID)

	got, err = repo.ListForUser(ctx, alice.ID, SwapRoleMade, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, made.ID, got[0].ID)

	got, err = repo.ListForUser(ctx, carol.ID, SwapRoleAny, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSwapRepository_Complete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "user_owner")
	requester := createTestUser(t, db, "user_requester")
	target := createTestItem(t, db, owner.ID)
	offered := createTestItem(t, db, requester.ID, func(i *models.Item) {
		i.Title = "Wool scarf"
		i.Category = models.CategoryAccessories
	})

	swap := &models.Swap{
		RequesterID:   requester.ID,
		OwnerID:       owner.ID,
		ItemID:        target.ID,
		OfferedItemID: &offered.ID,
		Status:        models.SwapStatusAccepted,
	}
	require.NoError(t, repo.Create(ctx, swap))

	done, err := repo.Complete(ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusCompleted, done.Status)

	// Both items leave circulation.
	var gotTarget, gotOffered models.Item
	require.NoError(t, db.First(&gotTarget, target.ID).Error)
	require.NoError(t, db.First(&gotOffered, offered.ID).Error)
	assert.Equal(t, models.ItemStatusSwapped, gotTarget.Status)
	assert.Equal(t, models.ItemStatusSwapped, gotOffered.Status)

	// Both swap counters advance.
	var gotOwner, gotRequester models.User
	require.NoError(t, db.First(&gotOwner, owner.ID).Error)
	require.NoError(t, db.First(&gotRequester, requester.ID).Error)
	assert.Equal(t, 1, gotOwner.TotalSwaps)
	assert.Equal(t, 1, gotRequester.TotalSwaps)

	// Each party earned a token for the garment they gave up.
	var tokens []models.ClosetToken
	require.NoError(t, db.Order("user_id").Find(&tokens).Error)
	require.Len(t, tokens, 2)
	byUser := map[uint]models.ClosetToken{}
	for _, tok := range tokens {
		byUser[tok.UserID] = tok
	}
	assert.Equal(t, models.CategoryOuterwear, byUser[owner.ID].ItemType)
	assert.Equal(t, models.CategoryAccessories, byUser[requester.ID].ItemType)
	require.NotNil(t, byUser[owner.ID].SwapID)
	assert.Equal(t, swap.ID, *byUser[owner.ID].SwapID)
}

func TestSwapRepository_Complete_NoOfferedItem(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "user_owner")
	requester := createTestUser(t, db, "user_requester")
	target := createTestItem(t, db, owner.ID, func(i *models.Item) {
		i.ListingType = models.ListingTypePoints
		i.Points = 55
	})

	swap := &models.Swap{
		RequesterID:   requester.ID,
		OwnerID:       owner.ID,
		ItemID:        target.ID,
		PointsOffered: 55,
		Status:        models.SwapStatusAccepted,
	}
	require.NoError(t, repo.Create(ctx, swap))

	_, err := repo.Complete(ctx, swap.ID)
	require.NoError(t, err)

	// Only the owner traded an item away, so only the owner earns a token.
	var tokens []models.ClosetToken
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, owner.ID, tokens[0].UserID)
}

func TestSwapRepository_Complete_RequiresAccepted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "user_owner")
	requester := createTestUser(t, db, "user_requester")
	target := createTestItem(t, db, owner.ID)

	swap := &models.Swap{
		RequesterID: requester.ID,
		OwnerID:     owner.ID,
		ItemID:      target.ID,
		Status:      models.SwapStatusPending,
	}
	require.NoError(t, repo.Create(ctx, swap))

	_, err := repo.Complete(ctx, swap.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STATE_ERROR", appErr.Code)

	// Nothing moved: the transaction rolled back cleanly.
	var gotTarget models.Item
	require.NoError(t, db.First(&gotTarget, target.ID).Error)
	assert.Equal(t, models.ItemStatusAvailable, gotTarget.Status)

	var tokenCount int64
	require.NoError(t, db.Model(&models.ClosetToken{}).Count(&tokenCount).Error)
	assert.Zero(t, tokenCount)
}

func TestSwapRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSwapRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "user_owner")
	requester := createTestUser(t, db, "user_requester")
	target := createTestItem(t, db, owner.ID)

	swap := &models.Swap{
		RequesterID: requester.ID,
		OwnerID:     owner.ID,
		ItemID:      target.ID,
		Status:      models.SwapStatusPending,
	}
	require.NoError(t, repo.Create(ctx, swap))

	require.NoError(t, repo.UpdateStatus(ctx, swap.ID, models.SwapStatusAccepted))

	got, err := repo.GetByID(ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SwapStatusAccepted, got.Status)

	err = repo.UpdateStatus(ctx, 9999, models.SwapStatusAccepted)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
