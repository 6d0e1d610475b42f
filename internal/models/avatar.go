package models

import (
	"encoding/json"
	"time"
)

// Avatar stores a user's customizable avatar: the base figure plus the
// clothing, emoji and free-draw layers the editor produces. The payloads are
// opaque JSON owned by the client; the server only persists and returns them.
type Avatar struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	AvatarData     json.RawMessage `gorm:"type:jsonb" json:"avatar_data"`
	ClothingItems  json.RawMessage `gorm:"type:jsonb" json:"clothing_items"`
	EmojiItems     json.RawMessage `gorm:"type:jsonb" json:"emoji_items"`
	DrawingStrokes json.RawMessage `gorm:"type:jsonb" json:"drawing_strokes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Avatar) TableName() string {
	return "user_avatars"
}
