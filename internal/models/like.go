package models

import "time"

// Like marks a user's interest in an item. One per (user, item) pair.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ItemID    uint      `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Item      *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
