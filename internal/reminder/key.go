// Package reminder runs the periodic sweep that announces events shortly
// before they start. Dedup state is the notified flag on the event record
// itself, so it survives restarts; Key is only the in-batch identity used to
// collapse duplicate entries pointing at the same real-world meeting.
package reminder

import (
	"strings"

	"ScheduleAssistantBot/internal/database/models"
)

// Key identifies one reminder dispatch. Events that reduce to the same key
// are announced at most once per batch.
type Key struct {
	Channel string
	Date    string
	Time    string
	Title   string
}

// KeyOf derives the dedup key from an event. Time is trimmed and the title is
// lowercased so cosmetic differences don't produce double announcements.
func KeyOf(ev models.Event) Key {
	return Key{
		Channel: ev.Channel,
		Date:    ev.StartDate,
		Time:    strings.TrimSpace(ev.StartTime),
		Title:   strings.ToLower(strings.TrimSpace(ev.Title)),
	}
}
