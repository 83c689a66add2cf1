package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ScheduleAssistantBot/internal/ai"
	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/schedule"
)

const chatTimeout = 90 * time.Second

// HandleChat runs the assistant flow for one free-text message: persist the
// turn, apply whatever calendar instruction the model extracts from it, then
// answer conversationally. Conflict rejections are reported back to the user
// verbatim so they know the slot is taken, not that something broke.
func (h *MessageHandler) HandleChat(chatID int64, username, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	channel := strconv.FormatInt(chatID, 10)
	if err := h.history.AppendMessage(channel, "user", username, text); err != nil {
		h.log.Warnw("failed to persist user message", "chat", chatID, "err", err)
	}

	past := h.storage.History(chatID)

	var actionNote string
	action, err := h.ai.ExtractAction(ctx, text, past)
	if err != nil {
		h.log.Warnw("calendar action extraction failed", "chat", chatID, "err", err)
	}
	if action != nil {
		actionNote = h.applyAction(channel, action)
	}

	reply := h.ai.GenerateReply(ctx, text, past, h.calendarContext())
	if actionNote != "" {
		reply = actionNote + "\n\n" + reply
	}

	h.storage.AddTurn(chatID, ai.Message{Role: "user", Content: text})
	h.storage.AddTurn(chatID, ai.Message{Role: "assistant", Content: reply})
	if err := h.history.AppendMessage(channel, "assistant", "", reply); err != nil {
		h.log.Warnw("failed to persist assistant message", "chat", chatID, "err", err)
	}

	if err := h.sendMessage(chatID, reply, CreateMainMenuKeyboard()); err != nil {
		h.log.Errorw("failed to send reply", "chat", chatID, "err", err)
	}
}

// applyAction executes an extracted calendar instruction and returns the
// confirmation (or refusal) line prepended to the assistant's reply.
func (h *MessageHandler) applyAction(channel string, action *ai.Action) string {
	switch action.Action {
	case ai.ActionCreate:
		return h.applyCreate(channel, action)
	case ai.ActionDelete:
		return h.applyDelete(action)
	case ai.ActionReschedule:
		return h.applyReschedule(action)
	}
	return ""
}

func (h *MessageHandler) applyCreate(channel string, action *ai.Action) string {
	title := strings.TrimSpace(action.Title)
	if title == "" {
		title = "Meeting"
	}

	ev, err := h.calendar.CreateEvent(calendar.EventInput{
		Title:       title,
		Description: action.Description,
		StartDate:   action.Date,
		StartTime:   action.StartTime,
		EndTime:     action.EndTime,
		Category:    action.Category,
		Channel:     channel,
	})
	if err != nil {
		return scheduleFailure(err)
	}

	cat := h.calendar.ResolveCategory(ev.Category)
	when := ev.StartDate
	if ev.StartTime != "" {
		when += " at " + ev.StartTime
	}
	return fmt.Sprintf("✅ Scheduled %q on %s [%s].", ev.Title, when, cat.Name)
}

func (h *MessageHandler) applyDelete(action *ai.Action) string {
	ev, err := h.calendar.ResolveEvent(action.EventID, action.Title, action.Date)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return "⚠️ I couldn't find that meeting in the calendar."
		}
		h.log.Errorw("failed to resolve event for deletion", "err", err)
		return "❌ Something went wrong while looking up that meeting."
	}
	if err := h.calendar.DeleteEvent(ev.ID); err != nil {
		h.log.Errorw("failed to delete event", "event", ev.ID, "err", err)
		return "❌ Something went wrong while cancelling that meeting."
	}
	return fmt.Sprintf("🗑 Cancelled %q on %s.", ev.Title, ev.StartDate)
}

func (h *MessageHandler) applyReschedule(action *ai.Action) string {
	ev, err := h.calendar.ResolveEvent(action.EventID, action.Title, action.Date)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return "⚠️ I couldn't find the meeting you want to move."
		}
		h.log.Errorw("failed to resolve event for reschedule", "err", err)
		return "❌ Something went wrong while looking up that meeting."
	}

	patch := calendar.EventPatch{}
	if action.NewTitle != "" {
		patch.Title = &action.NewTitle
	}
	if action.NewDescription != "" {
		patch.Description = &action.NewDescription
	}
	if action.NewDate != "" {
		patch.StartDate = &action.NewDate
		patch.EndDate = &action.NewDate
	}
	if action.NewStartTime != "" {
		patch.StartTime = &action.NewStartTime
	}
	if action.NewEndTime != "" {
		patch.EndTime = &action.NewEndTime
	}
	if action.NewCategory != "" {
		patch.Category = &action.NewCategory
	}

	updated, err := h.calendar.UpdateEvent(ev.ID, patch)
	if err != nil {
		return scheduleFailure(err)
	}
	when := updated.StartDate
	if updated.StartTime != "" {
		when += " at " + updated.StartTime
	}
	return fmt.Sprintf("🔁 Moved %q to %s.", updated.Title, when)
}

// scheduleFailure translates service errors into a chat line. Conflicts and
// validation problems are the user's to fix; everything else is ours.
func scheduleFailure(err error) string {
	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		return "⚠️ " + conflict.Error() + ". Want to pick another time?"
	}
	var invalid *calendar.ValidationError
	if errors.As(err, &invalid) {
		return "⚠️ I need at least a date to schedule that — when should it be?"
	}
	return "❌ Something went wrong while updating the calendar."
}

// calendarContext summarizes upcoming meetings for the reply model so the
// assistant can reference them.
func (h *MessageHandler) calendarContext() string {
	events, err := h.calendar.ListEvents("", "")
	if err != nil {
		h.log.Debugw("unable to fetch calendar context", "err", err)
		return ""
	}

	today := time.Now().Format("2006-01-02")
	var items []string
	for _, ev := range events {
		if ev.StartDate < today || ev.Done {
			continue
		}
		parts := []string{ev.StartDate}
		if ev.StartTime != "" {
			parts = append(parts, ev.StartTime)
		}
		parts = append(parts, ev.Title)
		if ev.Description != "" {
			parts = append(parts, "("+ev.Description+")")
		}
		items = append(items, " - "+strings.Join(parts, " · "))
		if len(items) == 5 {
			break
		}
	}
	if len(items) == 0 {
		return ""
	}
	return "Upcoming meetings:\n" + strings.Join(items, "\n")
}
