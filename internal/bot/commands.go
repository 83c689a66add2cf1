package bot

import (
	"fmt"
	"strings"
	"time"

	"ScheduleAssistantBot/internal/ai"
	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// HistoryStore persists conversation turns; the database package implements
// it.
type HistoryStore interface {
	AppendMessage(channel, role, username, content string) error
}

type MessageHandler struct {
	bot      *tgbotapi.BotAPI
	storage  storage.BotStorage
	calendar *calendar.Service
	ai       *ai.Client
	history  HistoryStore
	log      *zap.SugaredLogger
}

func NewMessageHandler(bot *tgbotapi.BotAPI, st storage.BotStorage, svc *calendar.Service, client *ai.Client, history HistoryStore, log *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{
		bot:      bot,
		storage:  st,
		calendar: svc,
		ai:       client,
		history:  history,
		log:      log,
	}
}

func (h *MessageHandler) sendMessage(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)

	if keyboard.Keyboard != nil {
		msg.ReplyMarkup = keyboard
	} else {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	sentMsg, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send message failed: %w", err)
	}

	h.storage.SetLastMessageID(chatID, sentMsg.MessageID)
	return nil
}

// SendMessage is the exported variant used by other packages.
func (h *MessageHandler) SendMessage(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	return h.sendMessage(chatID, text, keyboard)
}

func (h *MessageHandler) SendStartMessage(chatID int64) {
	text := `👋 Welcome to the scheduling assistant!

✨ What I can do:
• 💬 Chat about your plans — I pick up meetings automatically
• 📅 Show today's schedule
• 🗓 Show upcoming meetings
• 🔔 Remind this chat shortly before a meeting starts

Just tell me things like "lunch with Sam on Friday at 13:00".`

	if err := h.sendMessage(chatID, text, CreateMainMenuKeyboard()); err != nil {
		h.log.Warnw("failed to send start message", "chat", chatID, "err", err)
	}
}

func (h *MessageHandler) SendHelp(chatID int64) {
	text := `❓ How to use me

Describe a plan in plain language and I schedule it:
• "team sync tomorrow 10:00-10:30"
• "move the team sync to 11:00"
• "cancel the dentist appointment"

A slot that is already occupied is refused — pick another time.
Reminders arrive in this chat about 15 minutes before a meeting.`

	if err := h.sendMessage(chatID, text, CreateMainMenuKeyboard()); err != nil {
		h.log.Warnw("failed to send help", "chat", chatID, "err", err)
	}
}

// SendToday lists the events scheduled for the current date.
func (h *MessageHandler) SendToday(chatID int64) {
	today := time.Now().Format("2006-01-02")
	events, err := h.calendar.ListEvents(today, today)
	if err != nil {
		h.log.Errorw("failed to list today's events", "err", err)
		h.sendMessage(chatID, "❌ Couldn't load today's schedule, try again later.", CreateMainMenuKeyboard())
		return
	}
	if len(events) == 0 {
		h.sendMessage(chatID, "📅 Nothing scheduled for today.", CreateMainMenuKeyboard())
		return
	}

	var b strings.Builder
	b.WriteString("📅 Today:\n\n")
	for _, ev := range events {
		cat := h.calendar.ResolveCategory(ev.Category)
		mark := "•"
		if ev.Done {
			mark = "✅"
		}
		span := "all day"
		if ev.StartTime != "" {
			span = ev.StartTime
			if ev.EndTime != "" {
				span += "–" + ev.EndTime
			}
		}
		fmt.Fprintf(&b, "%s %s — %s [%s]\n", mark, span, ev.Title, cat.Name)
	}
	h.sendMessage(chatID, b.String(), CreateMainMenuKeyboard())
}

// SendUpcoming lists the next few events from today onward.
func (h *MessageHandler) SendUpcoming(chatID int64) {
	events, err := h.calendar.ListEvents("", "")
	if err != nil {
		h.log.Errorw("failed to list events", "err", err)
		h.sendMessage(chatID, "❌ Couldn't load the schedule, try again later.", CreateMainMenuKeyboard())
		return
	}

	today := time.Now().Format("2006-01-02")
	var b strings.Builder
	b.WriteString("🗓 Upcoming:\n\n")
	count := 0
	for _, ev := range events {
		if ev.StartDate < today || ev.Done {
			continue
		}
		cat := h.calendar.ResolveCategory(ev.Category)
		line := fmt.Sprintf("• %s", ev.StartDate)
		if ev.StartTime != "" {
			line += " " + ev.StartTime
		}
		fmt.Fprintf(&b, "%s — %s [%s]\n", line, ev.Title, cat.Name)
		count++
		if count == 10 {
			break
		}
	}
	if count == 0 {
		h.sendMessage(chatID, "🗓 No upcoming meetings.", CreateMainMenuKeyboard())
		return
	}
	h.sendMessage(chatID, b.String(), CreateMainMenuKeyboard())
}
