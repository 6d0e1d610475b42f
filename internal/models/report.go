package models

import "time"

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
)

// FlagThreshold is the report count at which an item is automatically moved
// to the flagged status and hidden from browse.
const FlagThreshold = 3

// Report is a user complaint about a listing, reviewed by admins.
type Report struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReporterID  uint      `gorm:"not null;index" json:"reporter_id"`
	Reporter    *User     `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	ItemID      uint      `gorm:"not null;index" json:"item_id"`
	Item        *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Reason      string    `gorm:"not null" json:"reason"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"not null;default:pending;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidReportStatus reports whether s is a known report status.
func ValidReportStatus(s string) bool {
	return s == ReportStatusPending || s == ReportStatusReviewed || s == ReportStatusResolved
}
