package models

import "time"

// Category groups events for display. Names are unique case-insensitively;
// Color is a hex string the calendar UI renders with.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Color     string    `gorm:"size:50" json:"color"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
