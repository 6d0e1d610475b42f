// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User status values. Deleted provider accounts are banned, never removed.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// User roles.
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// User represents a marketplace member. Identity is owned by the external
// auth provider; ExternalID is the provider's stable user identifier and the
// only credential-adjacent field we store.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ExternalID string         `gorm:"unique;not null;index" json:"external_id"`
	Email      string         `gorm:"not null" json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	ImageURL   string         `json:"image_url"`
	Bio        string         `json:"bio"`
	Location   string         `json:"location"`
	Points     int            `gorm:"not null;default:0" json:"points"`
	TotalSwaps int            `gorm:"not null;default:0" json:"total_swaps"`
	Rating     float64        `gorm:"not null;default:5.0" json:"rating"`
	Status     string         `gorm:"not null;default:active" json:"status"`
	Role       string         `gorm:"not null;default:user" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Items      []Item         `gorm:"foreignKey:UserID" json:"items,omitempty"`
}

// PublicProfile is the subset of user fields embedded in item and swap
// responses so clients can render listings without extra round trips.
type PublicProfile struct {
	ID         uint    `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	ImageURL   string  `json:"image_url"`
	Rating     float64 `json:"rating"`
	TotalSwaps int     `json:"total_swaps"`
}

// Public returns the user's public profile fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ImageURL:   u.ImageURL,
		Rating:     u.Rating,
		TotalSwaps: u.TotalSwaps,
	}
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
