// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"rewear/internal/models"
	"rewear/internal/valuation"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	itemAdjectives = []string{
		"vintage", "classic", "cozy", "oversized", "tailored", "distressed",
		"pleated", "quilted", "embroidered", "hand-dyed", "cropped", "relaxed",
		"lightweight", "waxed", "herringbone", "checked", "corduroy", "linen",
	}

	itemNouns = map[string][]string{
		models.CategoryTops:        {"tee", "blouse", "flannel shirt", "turtleneck", "polo", "henley"},
		models.CategoryBottoms:     {"jeans", "chinos", "wide-leg trousers", "cargo pants", "culottes"},
		models.CategoryDresses:     {"wrap dress", "slip dress", "sundress", "midi dress", "shirt dress"},
		models.CategoryOuterwear:   {"denim jacket", "trench coat", "parka", "bomber", "wool coat"},
		models.CategoryShoes:       {"sneakers", "loafers", "chelsea boots", "sandals", "oxfords"},
		models.CategoryAccessories: {"silk scarf", "leather belt", "tote bag", "beanie", "sunglasses"},
	}

	itemSizes = []string{"XS", "S", "M", "L", "XL", "One Size"}

	reportReasons = []string{
		"inappropriate", "counterfeit", "misleading description", "spam", "damaged beyond listed condition",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample member. The external ID mimics
// the auth provider's opaque identifiers.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		ExternalID: "user_" + uuid.NewString(),
		Email:      gofakeit.Email(),
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		ImageURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", uuid.NewString()),
		Bio:        gofakeit.Sentence(10),
		Location:   gofakeit.City(),
		Rating:     4.0 + f.r.Float64(),
		Status:     models.UserStatusActive,
		Role:       models.UserRoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildItem constructs an item for the given owner without persisting it.
func (f *Factory) BuildItem(owner *models.User, overrides ...func(*models.Item)) *models.Item {
	category := models.Categories[f.r.Intn(len(models.Categories))]
	condition := models.Conditions[f.r.Intn(len(models.Conditions))]
	listingType := models.ListingTypeSwap
	switch f.r.Intn(10) {
	case 0:
		listingType = models.ListingTypeDonate
	case 1, 2:
		listingType = models.ListingTypePoints
	}

	nouns := itemNouns[category]
	title := fmt.Sprintf("%s %s",
		itemAdjectives[f.r.Intn(len(itemAdjectives))],
		nouns[f.r.Intn(len(nouns))])

	item := &models.Item{
		UserID:      owner.ID,
		Title:       title,
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Category:    category,
		Size:        itemSizes[f.r.Intn(len(itemSizes))],
		Condition:   condition,
		Points:      valuation.Compute(listingType, category, condition, 0, false),
		Tags:        []string{category, condition},
		Images: []string{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", uuid.NewString()),
		},
		Status:      models.ItemStatusAvailable,
		ListingType: listingType,
		Views:       f.r.Intn(400),
		CreatedAt:   f.pastTime(90),
	}
	for _, override := range overrides {
		override(item)
	}
	return item
}

// CreateItemsBatch persists multiple items in a single DB call.
func (f *Factory) CreateItemsBatch(items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}
	return f.db.Create(&items).Error
}

// CreateSwap persists a swap between the requester and the item's owner.
func (f *Factory) CreateSwap(requester *models.User, item *models.Item, overrides ...func(*models.Swap)) (*models.Swap, error) {
	swap := &models.Swap{
		RequesterID: requester.ID,
		OwnerID:     item.UserID,
		ItemID:      item.ID,
		Status:      models.SwapStatusPending,
		Message:     gofakeit.Sentence(8),
		CreatedAt:   f.pastTime(30),
	}
	for _, override := range overrides {
		override(swap)
	}
	if err := f.db.Create(swap).Error; err != nil {
		return nil, err
	}
	return swap, nil
}

// CreateLike persists a like, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, item *models.Item) error {
	like := &models.Like{UserID: user.ID, ItemID: item.ID}
	err := f.db.Create(like).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// CreateReport persists a report against the item.
func (f *Factory) CreateReport(reporter *models.User, item *models.Item) (*models.Report, error) {
	report := &models.Report{
		ReporterID:  reporter.ID,
		ItemID:      item.ID,
		Reason:      reportReasons[f.r.Intn(len(reportReasons))],
		Description: gofakeit.Sentence(12),
		Status:      models.ReportStatusPending,
	}
	if err := f.db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// CreateToken persists a closet token for a traded garment.
func (f *Factory) CreateToken(user *models.User, item *models.Item, swapID *uint) (*models.ClosetToken, error) {
	token := &models.ClosetToken{
		UserID:   user.ID,
		ItemType: item.Category,
		Emoji:    models.TokenEmoji(item.Category),
		ItemName: item.Title,
		SwapID:   swapID,
	}
	if err := f.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// pastTime returns a timestamp up to maxDays in the past, for a realistic
// created_at spread.
func (f *Factory) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(f.r.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.r.Intn(60)) * time.Minute)
}
