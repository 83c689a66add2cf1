package reminder

import (
	"errors"
	"testing"
	"time"

	"ScheduleAssistantBot/internal/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	events    []models.Event
	queryErr  error
	notified  map[string]int
	completed map[string]int
}

func newFakeSource(events ...models.Event) *fakeSource {
	return &fakeSource{
		events:    events,
		notified:  make(map[string]int),
		completed: make(map[string]int),
	}
}

func (f *fakeSource) DueEvents(date string) ([]models.Event, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var due []models.Event
	for _, ev := range f.events {
		if ev.StartDate == date && !ev.Notified {
			due = append(due, ev)
		}
	}
	return due, nil
}

func (f *fakeSource) MarkNotified(id string) error {
	f.notified[id]++
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].Notified = true
		}
	}
	return nil
}

func (f *fakeSource) CompleteEvent(id string) error {
	f.completed[id]++
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].Done = true
			f.events[i].Notified = true
		}
	}
	return nil
}

type fakeNotifier struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeNotifier) Send(channel, message string) error {
	if f.failFor != nil && f.failFor[channel] {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, channel+"|"+message)
	return nil
}

func newTestSweeper(src *fakeSource, n *fakeNotifier, now time.Time) *Sweeper {
	s := NewSweeper(src, n, 15*time.Minute, zap.NewNop().Sugar())
	s.now = func() time.Time { return now }
	return s
}

func at(clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2026-08-30 "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSweepWindow(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "soon", Title: "Standup", StartDate: "2026-08-30", StartTime: "14:00", Channel: "42"},
		models.Event{ID: "later", Title: "Review", StartDate: "2026-08-30", StartTime: "14:10", Channel: "42"},
	)
	n := &fakeNotifier{}

	require.NoError(t, newTestSweeper(src, n, at("13:50")).Run())

	assert.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Standup")
	assert.Equal(t, 1, src.notified["soon"])
	assert.Zero(t, src.notified["later"])
}

func TestSweepBoundaryInclusive(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "now", Title: "A", StartDate: "2026-08-30", StartTime: "14:00", Channel: "1"},
		models.Event{ID: "edge", Title: "B", StartDate: "2026-08-30", StartTime: "14:15", Channel: "1"},
	)
	n := &fakeNotifier{}

	require.NoError(t, newTestSweeper(src, n, at("14:00")).Run())

	assert.Len(t, n.sent, 2, "both window bounds are inclusive")
}

func TestSweepAtMostOnceAcrossCycles(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "e1", Title: "Standup", StartDate: "2026-08-30", StartTime: "14:00", Channel: "42"},
	)
	n := &fakeNotifier{}
	s := newTestSweeper(src, n, at("13:50"))

	require.NoError(t, s.Run())
	s.now = func() time.Time { return at("13:55") }
	require.NoError(t, s.Run())

	assert.Len(t, n.sent, 1, "second cycle must not re-announce a notified event")
}

func TestSweepRetriesFailedDispatch(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "e1", Title: "Standup", StartDate: "2026-08-30", StartTime: "14:00", Channel: "42"},
	)
	n := &fakeNotifier{failFor: map[string]bool{"42": true}}
	s := newTestSweeper(src, n, at("13:50"))

	require.NoError(t, s.Run(), "dispatch failure must not abort the cycle")
	assert.Zero(t, src.notified["e1"], "failed dispatch leaves the event un-notified")

	n.failFor = nil
	require.NoError(t, s.Run())
	assert.Len(t, n.sent, 1)
	assert.Equal(t, 1, src.notified["e1"])
}

func TestSweepSkipsDoneAndChannelless(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "done", Title: "A", StartDate: "2026-08-30", StartTime: "14:00", Channel: "1", Done: true},
		models.Event{ID: "orphan", Title: "B", StartDate: "2026-08-30", StartTime: "14:00"},
		models.Event{ID: "allday", Title: "C", StartDate: "2026-08-30", Channel: "1"},
	)
	n := &fakeNotifier{}

	require.NoError(t, newTestSweeper(src, n, at("13:50")).Run())

	assert.Empty(t, n.sent)
	assert.Empty(t, src.notified)
}

func TestSweepCompletesPastEvents(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "past", Title: "Missed", StartDate: "2026-08-30", StartTime: "09:00", Channel: "42"},
	)
	n := &fakeNotifier{}

	require.NoError(t, newTestSweeper(src, n, at("13:50")).Run())

	assert.Empty(t, n.sent, "past events get no reminder")
	assert.Equal(t, 1, src.completed["past"])
}

func TestSweepDeduplicatesByKey(t *testing.T) {
	src := newFakeSource(
		models.Event{ID: "e1", Title: "Standup", StartDate: "2026-08-30", StartTime: "14:00", Channel: "42"},
		models.Event{ID: "e2", Title: " standup ", StartDate: "2026-08-30", StartTime: " 14:00", Channel: "42"},
		models.Event{ID: "e3", Title: "Standup", StartDate: "2026-08-30", StartTime: "14:00", Channel: "7"},
	)
	n := &fakeNotifier{}

	require.NoError(t, newTestSweeper(src, n, at("13:50")).Run())

	assert.Len(t, n.sent, 2, "one per distinct key; different channel is a distinct key")
	assert.Equal(t, 1, src.notified["e1"])
	assert.Equal(t, 1, src.notified["e2"], "duplicate is silenced but still marked")
	assert.Equal(t, 1, src.notified["e3"])
}

func TestSweepAbortsOnQueryError(t *testing.T) {
	src := newFakeSource()
	src.queryErr = errors.New("db gone")
	n := &fakeNotifier{}

	err := newTestSweeper(src, n, at("13:50")).Run()
	assert.Error(t, err)
	assert.Empty(t, n.sent)
}

func TestKeyOfNormalizes(t *testing.T) {
	a := KeyOf(models.Event{Channel: "42", StartDate: "2026-08-30", StartTime: " 14:00 ", Title: " Standup "})
	b := KeyOf(models.Event{Channel: "42", StartDate: "2026-08-30", StartTime: "14:00", Title: "standup"})
	assert.Equal(t, a, b)
}
