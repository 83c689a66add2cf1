package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ScheduleAssistantBot/internal/ai"
	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/database/models"
	"ScheduleAssistantBot/internal/schedule"

	"go.uber.org/zap"
)

// HistorySource exposes the stored chat transcripts the agent mines for
// meetings, plus the per-channel cursor that marks how far it has read.
type HistorySource interface {
	Channels() ([]string, error)
	MessagesAfter(channel string, afterID uint) ([]models.ChatMessage, error)
	Cursor(channel string) (uint, error)
	SetCursor(channel string, lastID uint) error
}

// Agent periodically re-reads new conversation messages and turns any
// meetings mentioned in them into calendar events. The cursor only advances
// after a batch is fully processed, so a failed extraction is retried on the
// next cycle.
type Agent struct {
	history  HistorySource
	calendar *calendar.Service
	ai       *ai.Client
	log      *zap.SugaredLogger
}

func NewAgent(history HistorySource, svc *calendar.Service, client *ai.Client, log *zap.SugaredLogger) *Agent {
	return &Agent{
		history:  history,
		calendar: svc,
		ai:       client,
		log:      log,
	}
}

// Run performs one ingestion pass over every known channel.
func (a *Agent) Run(ctx context.Context) error {
	if !a.ai.Enabled() {
		a.log.Debug("agent skipped, ai client disabled")
		return nil
	}

	channels, err := a.history.Channels()
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}

	for _, channel := range channels {
		if err := a.processChannel(ctx, channel); err != nil {
			a.log.Warnw("channel ingestion failed", "channel", channel, "err", err)
		}
	}
	return nil
}

func (a *Agent) processChannel(ctx context.Context, channel string) error {
	cursor, err := a.history.Cursor(channel)
	if err != nil {
		return fmt.Errorf("load cursor: %w", err)
	}

	messages, err := a.history.MessagesAfter(channel, cursor)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}
	lastID := messages[len(messages)-1].ID

	transcript := buildTranscript(messages)
	if len(transcript) == 0 {
		// Only assistant turns since the cursor, nothing to mine.
		return a.history.SetCursor(channel, lastID)
	}

	meetings, err := a.ai.ExtractMeetings(ctx, transcript)
	if err != nil {
		return fmt.Errorf("extract meetings: %w", err)
	}

	for _, m := range meetings {
		a.scheduleMeeting(channel, m)
	}

	return a.history.SetCursor(channel, lastID)
}

func buildTranscript(messages []models.ChatMessage) []ai.TranscriptMessage {
	var transcript []ai.TranscriptMessage
	for _, msg := range messages {
		if msg.Role != "user" {
			continue
		}
		transcript = append(transcript, ai.TranscriptMessage{
			Username: msg.Username,
			Message:  msg.Content,
			SendTime: msg.CreatedAt.Format(time.RFC3339),
		})
	}
	return transcript
}

func (a *Agent) scheduleMeeting(channel string, m ai.Meeting) {
	if m.Title == "" || m.Date == "" {
		a.log.Debugw("skipping meeting without title or date", "meeting", m)
		return
	}

	ev, err := a.calendar.CreateEvent(calendar.EventInput{
		Title:       m.Title,
		Description: m.Description,
		StartDate:   m.Date,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		Category:    m.Category,
		Channel:     channel,
		Done:        m.Completed,
	})
	if err != nil {
		var conflict *schedule.ConflictError
		if errors.As(err, &conflict) {
			a.log.Infow("skipping conflicting meeting", "title", m.Title, "date", m.Date, "with", conflict.With)
			return
		}
		a.log.Warnw("failed to create event from transcript", "title", m.Title, "err", err)
		return
	}
	a.log.Infow("scheduled meeting from transcript", "event", ev.ID, "title", ev.Title, "date", ev.StartDate)
}
