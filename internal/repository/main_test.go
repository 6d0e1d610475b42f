package repository

import (
	"testing"

	"rewear/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB builds a gorm handle over sqlmock for tests that assert exact
// SQL.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// setupTestDB builds a fresh in-memory sqlite database with the full schema
// for tests that exercise real query behavior (filters, transactions,
// upserts).
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Swap{},
		&models.ClosetToken{},
		&models.Report{},
		&models.Like{},
		&models.Avatar{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  "Test",
		Status:     models.UserStatusActive,
		Role:       models.UserRoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestItem(t *testing.T, db *gorm.DB, ownerID uint, mutate ...func(*models.Item)) *models.Item {
	t.Helper()
	item := &models.Item{
		UserID:      ownerID,
		Title:       "Denim jacket",
		Description: "Lightly worn",
		Category:    models.CategoryOuterwear,
		Size:        "M",
		Condition:   models.ConditionExcellent,
		Points:      55,
		Status:      models.ItemStatusAvailable,
		ListingType: models.ListingTypeSwap,
	}
	for _, m := range mutate {
		m(item)
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
