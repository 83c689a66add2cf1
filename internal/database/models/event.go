package models

import "time"

// Event is a calendar entry. Dates are ISO "YYYY-MM-DD" strings and times are
// 24-hour "HH:MM" strings; both time fields may be empty for all-day entries.
// Channel points back at the conversation the event came from and is the
// destination for its reminder; events without a channel are never notified.
type Event struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartDate   string    `gorm:"size:10;not null;index" json:"startDate"`
	EndDate     string    `gorm:"size:10;not null" json:"endDate"`
	StartTime   string    `gorm:"size:5" json:"startTime"`
	EndTime     string    `gorm:"size:5" json:"endTime"`
	Category    string    `gorm:"size:64" json:"category"`
	Done        bool      `gorm:"default:false" json:"done"`
	Channel     string    `gorm:"size:64;index" json:"channel,omitempty"`
	Notified    bool      `gorm:"default:false" json:"notified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
