package database

import (
	"errors"

	"ScheduleAssistantBot/internal/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Conversation history operations

// AppendMessage stores one turn of a conversation, creating the conversation
// row on first contact.
func (s *Store) AppendMessage(channel, role, username, content string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		convo := models.Conversation{ID: channel}
		if err := tx.FirstOrCreate(&convo, models.Conversation{ID: channel}).Error; err != nil {
			return err
		}
		msg := models.ChatMessage{
			ConversationID: channel,
			Role:           role,
			Username:       username,
			Content:        content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("id = ?", channel).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// Channels lists every known conversation id.
func (s *Store) Channels() ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Conversation{}).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MessagesAfter returns a channel's messages newer than the given message id,
// oldest first.
func (s *Store) MessagesAfter(channel string, afterID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.Where("conversation_id = ? AND id > ?", channel, afterID).
		Order("id ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Cursor returns the id of the last message the ingestion agent processed
// for a channel, zero when the channel has never been processed.
func (s *Store) Cursor(channel string) (uint, error) {
	var cursor models.ChannelCursor
	err := s.db.First(&cursor, "channel = ?", channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cursor.LastMessageID, nil
}

// SetCursor records the last processed message id for a channel.
func (s *Store) SetCursor(channel string, lastID uint) error {
	cursor := models.ChannelCursor{Channel: channel, LastMessageID: lastID}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_message_id", "updated_at"}),
	}).Create(&cursor).Error
}
