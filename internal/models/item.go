package models

import (
	"time"
)

// Item categories. The set is closed; creation rejects anything else.
const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryOuterwear   = "outerwear"
	CategoryShoes       = "shoes"
	CategoryAccessories = "accessories"
)

// Item conditions, best to worst.
const (
	ConditionLikeNew   = "like-new"
	ConditionExcellent = "excellent"
	ConditionVeryGood  = "very-good"
	ConditionGood      = "good"
	ConditionFair      = "fair"
)

// Item statuses. Deleted and swapped are terminal for public visibility;
// records are never physically removed.
const (
	ItemStatusAvailable = "available"
	ItemStatusPending   = "pending"
	ItemStatusSwapped   = "swapped"
	ItemStatusFlagged   = "flagged"
	ItemStatusDeleted   = "deleted"
)

// Listing types.
const (
	ListingTypeSwap   = "swap"
	ListingTypeDonate = "donate"
	ListingTypePoints = "points"
)

// Categories lists all valid item categories.
var Categories = []string{
	CategoryTops, CategoryBottoms, CategoryDresses,
	CategoryOuterwear, CategoryShoes, CategoryAccessories,
}

// Conditions lists all valid item conditions.
var Conditions = []string{
	ConditionLikeNew, ConditionExcellent, ConditionVeryGood,
	ConditionGood, ConditionFair,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidCondition reports whether c is a known condition.
func ValidCondition(c string) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

// ValidListingType reports whether t is a known listing type.
func ValidListingType(t string) bool {
	return t == ListingTypeSwap || t == ListingTypeDonate || t == ListingTypePoints
}

// Item represents a clothing listing. Lifecycle is tracked entirely through
// Status (soft delete), so an item row outlives every swap that touches it.
type Item struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	UserID      uint     `gorm:"not null;index" json:"user_id"`
	User        *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string   `gorm:"not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    string   `gorm:"not null;index" json:"category"`
	Size        string   `gorm:"not null" json:"size"`
	Condition   string   `gorm:"not null" json:"condition"`
	Points      int      `gorm:"not null;default:0" json:"points"`
	Price       float64  `gorm:"not null;default:0" json:"price"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Images      []string `gorm:"serializer:json" json:"images"`
	Status      string   `gorm:"not null;default:available;index" json:"status"`
	ListingType string   `gorm:"not null;default:swap" json:"listing_type"`
	Views       int      `gorm:"not null;default:0" json:"views"`
	ReportCount int      `gorm:"not null;default:0" json:"report_count"`
	Flagged     bool     `gorm:"not null;default:false" json:"flagged"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this item (computed)
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available reports whether the item can be targeted by a new swap request.
func (i *Item) Available() bool {
	return i.Status == ItemStatusAvailable
}
