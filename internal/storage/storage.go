// Package storage keeps per-chat session state in memory: the recent
// dialogue turns fed to the language model as context, and the id of the
// bot's last message in each chat. Durable conversation history lives in the
// database; this cache only has to be fast and bounded.
package storage

import (
	"sync"
	"time"

	"ScheduleAssistantBot/internal/ai"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCacheSize       = 1000
	DefaultCleanupInterval = 5 * time.Minute

	// MaxHistoryTurns bounds the dialogue context per chat.
	MaxHistoryTurns = 20
)

type BotStorage interface {
	History(chatID int64) []ai.Message
	AddTurn(chatID int64, turn ai.Message)
	GetLastMessageID(chatID int64) (int, bool)
	SetLastMessageID(chatID int64, messageID int)
	ClearChat(chatID int64)
	CleanupExpiredData()
}

type MemoryStorage struct {
	mu sync.RWMutex

	history         *lru.Cache[int64, *historyEntry]
	lastBotMessages *lru.Cache[int64, int]

	creationTime map[int64]time.Time
}

type historyEntry struct {
	turns     []ai.Message
	createdAt time.Time
}

func NewMemoryStorage() (*MemoryStorage, error) {
	history, err := lru.New[int64, *historyEntry](DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	lastBotMessages, err := lru.New[int64, int](DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	storage := &MemoryStorage{
		history:         history,
		lastBotMessages: lastBotMessages,
		creationTime:    make(map[int64]time.Time),
	}
	go storage.startCleanupRoutine()

	return storage, nil
}

func (s *MemoryStorage) startCleanupRoutine() {
	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.CleanupExpiredData()
	}
}

// CleanupExpiredData drops chats that have been idle for more than a day.
func (s *MemoryStorage) CleanupExpiredData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	maxAge := 24 * time.Hour

	for chatID, createdAt := range s.creationTime {
		if now.Sub(createdAt) > maxAge {
			delete(s.creationTime, chatID)
			s.history.Remove(chatID)
			s.lastBotMessages.Remove(chatID)
		}
	}
}

// History returns a copy of the chat's recent dialogue turns, oldest first.
func (s *MemoryStorage) History(chatID int64) []ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.history.Get(chatID)
	if !exists {
		return nil
	}
	result := make([]ai.Message, len(entry.turns))
	copy(result, entry.turns)
	return result
}

// AddTurn appends one dialogue turn, trimming the oldest once the chat
// exceeds MaxHistoryTurns.
func (s *MemoryStorage) AddTurn(chatID int64, turn ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.history.Get(chatID)
	if !exists {
		entry = &historyEntry{createdAt: time.Now()}
	}
	entry.turns = append(entry.turns, turn)
	if len(entry.turns) > MaxHistoryTurns {
		entry.turns = entry.turns[len(entry.turns)-MaxHistoryTurns:]
	}

	s.history.Add(chatID, entry)
	s.updateCreationTime(chatID)
}

func (s *MemoryStorage) GetLastMessageID(chatID int64) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastBotMessages.Get(chatID)
}

func (s *MemoryStorage) SetLastMessageID(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBotMessages.Add(chatID, messageID)
	s.updateCreationTime(chatID)
}

func (s *MemoryStorage) ClearChat(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Remove(chatID)
	s.lastBotMessages.Remove(chatID)
	delete(s.creationTime, chatID)
}

func (s *MemoryStorage) updateCreationTime(chatID int64) {
	if _, exists := s.creationTime[chatID]; !exists {
		s.creationTime[chatID] = time.Now()
	}
}

// GetStats reports cache sizes for monitoring.
func (s *MemoryStorage) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"history_size":       s.history.Len(),
		"last_messages_size": s.lastBotMessages.Len(),
		"active_chats":       len(s.creationTime),
		"cache_capacity":     DefaultCacheSize,
	}
}
