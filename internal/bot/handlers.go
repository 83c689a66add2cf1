package bot

import (
	"ScheduleAssistantBot/internal/ai"
	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type UpdateHandler struct {
	bot        *tgbotapi.BotAPI
	storage    storage.BotStorage
	msgHandler *MessageHandler
	log        *zap.SugaredLogger
}

func NewUpdateHandler(bot *tgbotapi.BotAPI, st storage.BotStorage, svc *calendar.Service, client *ai.Client, history HistoryStore, log *zap.SugaredLogger) *UpdateHandler {
	return &UpdateHandler{
		bot:        bot,
		storage:    st,
		msgHandler: NewMessageHandler(bot, st, svc, client, history, log),
		log:        log,
	}
}

func (h *UpdateHandler) GetMessageHandler() *MessageHandler {
	return h.msgHandler
}

// HandleUpdates consumes the bot update stream. Menu buttons are handled
// directly; any other text goes through the assistant chat flow.
func (h *UpdateHandler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || update.Message.From == nil || update.Message.From.IsBot {
			continue
		}

		chatID := update.Message.Chat.ID
		userText := update.Message.Text
		username := update.Message.From.UserName

		h.log.Infow("incoming message", "chat", chatID, "text", userText)

		switch userText {
		case "/start":
			h.msgHandler.SendStartMessage(chatID)

		case "/help", "❓ Help":
			h.msgHandler.SendHelp(chatID)

		case "/today", "📅 Today":
			h.msgHandler.SendToday(chatID)

		case "/upcoming", "🗓 Upcoming":
			h.msgHandler.SendUpcoming(chatID)

		case "":
			// Stickers, photos and other non-text updates.
			continue

		default:
			h.msgHandler.HandleChat(chatID, username, userText)
		}
	}
}
