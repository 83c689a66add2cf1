package models

import "time"

// Conversation is one chat the assistant participates in. Its id doubles as
// the reminder channel for events extracted from it.
type Conversation struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Title     string `gorm:"size:255" json:"title"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Messages []ChatMessage `gorm:"foreignKey:ConversationID"`
}

// ChatMessage is a single turn of a conversation, role "user" or "assistant".
type ChatMessage struct {
	ID             uint   `gorm:"primaryKey"`
	ConversationID string `gorm:"size:64;not null;index"`
	Role           string `gorm:"size:16;not null"`
	Username       string `gorm:"size:255"`
	Content        string `gorm:"type:text"`
	CreatedAt      time.Time
}

// ChannelCursor remembers the last chat message the ingestion agent has
// processed per conversation, so each sweep only sees new messages.
type ChannelCursor struct {
	Channel       string `gorm:"primaryKey;size:64"`
	LastMessageID uint   `gorm:"not null;default:0"`
	UpdatedAt     time.Time
}
