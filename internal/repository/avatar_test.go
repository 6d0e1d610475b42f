package repository

import (
	"context"
	"encoding/json"
	"testing"

	"rewear/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAvatarRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user_avatar")

	_, err := repo.GetByUserID(ctx, user.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	avatar := &models.Avatar{
		UserID:     user.ID,
		AvatarData: json.RawMessage(`{"skin":"light","hair":"curly"}`),
		EmojiItems: json.RawMessage(`["🎩"]`),
	}
	require.NoError(t, repo.Upsert(ctx, avatar))

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skin":"light","hair":"curly"}`, string(got.AvatarData))

	// Saving again replaces the layers instead of adding a second row.
	require.NoError(t, repo.Upsert(ctx, &models.Avatar{
		UserID:     user.ID,
		AvatarData: json.RawMessage(`{"skin":"dark","hair":"short"}`),
	}))

	var count int64
	require.NoError(t, db.Model(&models.Avatar{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err = repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"skin":"dark","hair":"short"}`, string(got.AvatarData))
}
