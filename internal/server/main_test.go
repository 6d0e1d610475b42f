package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"rewear/internal/config"
	"rewear/internal/models"
	"rewear/internal/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testJWTSecret     = "test-jwt-secret-0123456789abcdef"
	testIssuer        = "rewear-auth"
	testWebhookSecret = "whsec_dGVzdC1zaWduaW5nLWtleS0xMjM0NTY3OA=="
)

func setupServerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Swap{},
		&models.ClosetToken{},
		&models.Report{},
		&models.Like{},
		&models.Avatar{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server over in-memory sqlite with no Redis; cache and
// rate limiting degrade gracefully in that configuration.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db := setupServerTestDB(t)

	cfg := &config.Config{
		Env:            "test",
		Port:           "8080",
		AuthJWTSecret:  testJWTSecret,
		AuthIssuer:     testIssuer,
		WebhookSecret:  testWebhookSecret,
		MediaUploadDir: t.TempDir(),
		MediaBaseURL:   "/media",
		MediaMaxSizeMB: 10,
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

func createServerTestUser(t *testing.T, db *gorm.DB, externalID string) *models.User {
	t.Helper()
	user := &models.User{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
		Status:     models.UserStatusActive,
		Role:       models.UserRoleUser,
		Rating:     5.0,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createServerTestItem(t *testing.T, db *gorm.DB, ownerID uint, mutate ...func(*models.Item)) *models.Item {
	t.Helper()
	item := &models.Item{
		UserID:      ownerID,
		Title:       "Denim jacket",
		Description: "Lightly worn",
		Category:    "outerwear",
		Size:        "M",
		Condition:   "excellent",
		Points:      55,
		Status:      models.ItemStatusAvailable,
		ListingType: models.ListingTypeSwap,
	}
	for _, m := range mutate {
		m(item)
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

// signTestToken mints a provider token for the given external user ID.
func signTestToken(t *testing.T, externalID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": externalID,
		"iss": testIssuer,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authHeader(t *testing.T, externalID string) string {
	return "Bearer " + signTestToken(t, externalID)
}

// signWebhook produces the three delivery headers the auth provider sends.
// It re-derives the signature the same way the provider does.
func signWebhook(t *testing.T, payload []byte, msgID string, at time.Time) http.Header {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(testWebhookSecret, "whsec_"))
	if err != nil {
		t.Fatalf("decode webhook secret: %v", err)
	}
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", msgID, ts)
	mac.Write(payload)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	h := http.Header{}
	h.Set(webhook.HeaderID, msgID)
	h.Set(webhook.HeaderTimestamp, ts)
	h.Set(webhook.HeaderSignature, "v1,"+sig)
	return h
}
