package models

import "time"

// ClosetToken is a collectible earned when a swap completes: each party
// receives a token recording the garment type they traded away. Tokens are
// append-only; they are never revoked even if users later leave.
type ClosetToken struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	ItemType string    `gorm:"not null" json:"item_type"`
	Emoji    string    `json:"emoji"`
	ItemName string    `gorm:"not null" json:"item_name"`
	SwapID   *uint     `gorm:"index" json:"swap_id,omitempty"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// TableName specifies the table name for GORM.
func (ClosetToken) TableName() string {
	return "closet_tokens"
}

// tokenEmojis maps item categories to the emoji shown on earned tokens.
var tokenEmojis = map[string]string{
	CategoryTops:        "👕",
	CategoryBottoms:     "👖",
	CategoryDresses:     "👗",
	CategoryOuterwear:   "🧥",
	CategoryShoes:       "👟",
	CategoryAccessories: "👜",
}

// TokenEmoji returns the emoji for an item category, with a neutral default
// for unknown categories.
func TokenEmoji(category string) string {
	if e, ok := tokenEmojis[category]; ok {
		return e
	}
	return "🧺"
}
