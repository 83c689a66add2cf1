package reminder

import (
	"fmt"
	"strings"
	"time"

	"ScheduleAssistantBot/internal/database/models"

	"go.uber.org/zap"
)

// EventSource is the slice of the store the sweep reads and writes.
type EventSource interface {
	// DueEvents returns events with the given start date that have not been
	// notified yet.
	DueEvents(date string) ([]models.Event, error)
	// MarkNotified sets the notified flag. Marking an already marked event
	// is a no-op, not an error.
	MarkNotified(id string) error
	// CompleteEvent marks an event done and notified in one step, used for
	// events whose start time has already passed.
	CompleteEvent(id string) error
}

// Notifier delivers a reminder message to a channel.
type Notifier interface {
	Send(channel, message string) error
}

// Sweeper executes single reminder cycles. The caller's scheduler is
// responsible for cadence and for never running two cycles concurrently.
type Sweeper struct {
	store     EventSource
	notifier  Notifier
	lookahead time.Duration
	log       *zap.SugaredLogger
	now       func() time.Time
}

func NewSweeper(store EventSource, notifier Notifier, lookahead time.Duration, log *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		store:     store,
		notifier:  notifier,
		lookahead: lookahead,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one sweep cycle: find today's un-notified events starting
// within [now, now+lookahead], dispatch one reminder per distinct key, and
// mark each dispatched event notified. Per-event dispatch failures are logged
// and retried on the next cycle; only a failing store query aborts the run.
func (s *Sweeper) Run() error {
	now := s.now()
	today := now.Format("2006-01-02")

	events, err := s.store.DueEvents(today)
	if err != nil {
		return fmt.Errorf("query due events: %w", err)
	}

	seen := make(map[Key]struct{})
	sent := 0
	for _, ev := range events {
		if ev.Done {
			continue
		}
		if ev.Channel == "" {
			// Nobody to notify.
			continue
		}
		start, ok := eventStart(ev, now.Location())
		if !ok {
			continue
		}
		if start.Before(now) {
			if err := s.store.CompleteEvent(ev.ID); err != nil {
				s.log.Warnw("failed to complete past event", "event", ev.ID, "err", err)
			}
			continue
		}
		if start.Sub(now) > s.lookahead {
			continue
		}

		key := KeyOf(ev)
		if _, dup := seen[key]; dup {
			// Same meeting stored twice; silence the duplicate without a
			// second announcement.
			if err := s.store.MarkNotified(ev.ID); err != nil {
				s.log.Warnw("failed to mark duplicate", "event", ev.ID, "err", err)
			}
			continue
		}
		seen[key] = struct{}{}

		if err := s.notifier.Send(ev.Channel, formatReminder(ev, start, now)); err != nil {
			s.log.Errorw("reminder dispatch failed", "event", ev.ID, "channel", ev.Channel, "err", err)
			continue
		}
		if err := s.store.MarkNotified(ev.ID); err != nil {
			s.log.Errorw("failed to mark notified", "event", ev.ID, "err", err)
			continue
		}
		sent++
	}

	s.log.Infow("reminder sweep finished", "candidates", len(events), "sent", sent)
	return nil
}

// eventStart builds the wall-clock start of an event. Events without a
// parseable date+time pair have no reminder moment.
func eventStart(ev models.Event, loc *time.Location) (time.Time, bool) {
	clock := strings.TrimSpace(ev.StartTime)
	if ev.StartDate == "" || clock == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", ev.StartDate+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatReminder(ev models.Event, start, now time.Time) string {
	minutes := int(start.Sub(now).Minutes())

	var b strings.Builder
	b.WriteString("🔔 Upcoming meeting reminder\n\n")
	fmt.Fprintf(&b, "Title: %s\n", ev.Title)
	fmt.Fprintf(&b, "Time: %s\n", start.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Starts in: %d minute(s)\n", minutes)
	if ev.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", ev.Description)
	}
	b.WriteString("\nDon't forget to join!")
	return b.String()
}
