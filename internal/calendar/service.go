// Package calendar is the application service in front of the event store.
// Every create and update goes through the same-day overlap check before it
// is persisted, and category references are always resolvable to something
// displayable even when they dangle.
package calendar

import (
	"errors"
	"fmt"
	"strings"

	"ScheduleAssistantBot/internal/database/models"
	"ScheduleAssistantBot/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an event or category id does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError marks rejected input. It is deliberately a different type
// from schedule.ConflictError so callers can tell "fix your request" apart
// from "the slot is taken".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EventStore is the persistence surface the service needs. The gorm-backed
// implementation lives in internal/database.
type EventStore interface {
	CreateEvent(ev *models.Event) error
	SaveEvent(ev *models.Event) error
	GetEvent(id string) (*models.Event, error)
	DeleteEvent(id string) error
	ListEvents(startDate, endDate string) ([]models.Event, error)
	ListEventsByDate(date string) ([]models.Event, error)

	ListCategories() ([]models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
	CreateCategory(c *models.Category) error
	DeleteCategory(id uint) error
}

type Service struct {
	store EventStore
	log   *zap.SugaredLogger
}

func NewService(store EventStore, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// EventInput carries the fields of a candidate event.
type EventInput struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Category    string
	Channel     string
	Done        bool
}

// EventPatch is a partial update; nil fields keep their stored value.
// Notified is settable so an operator can re-arm a reminder on purpose.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *string
	EndDate     *string
	StartTime   *string
	EndTime     *string
	Category    *string
	Channel     *string
	Done        *bool
	Notified    *bool
}

// CreateEvent validates and persists a new event. A same-day overlap with any
// accepted event rejects the candidate with a schedule.ConflictError.
func (s *Service) CreateEvent(in EventInput) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, &ValidationError{Field: "startDate", Reason: "required"}
	}
	endDate := in.EndDate
	if endDate == "" {
		endDate = in.StartDate
	}

	if err := s.checkConflict("", in.StartDate, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	ev := &models.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     endDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Category:    in.Category,
		Channel:     in.Channel,
		Done:        in.Done,
	}
	if err := s.store.CreateEvent(ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.Infow("event created", "id", ev.ID, "title", ev.Title, "date", ev.StartDate)
	return ev, nil
}

// UpdateEvent applies a partial update, re-running the overlap check against
// the merged event (the stored version of the event itself is excluded).
func (s *Service) UpdateEvent(id string, p EventPatch) (*models.Event, error) {
	ev, err := s.store.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		ev.Title = title
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.StartDate != nil {
		if strings.TrimSpace(*p.StartDate) == "" {
			return nil, &ValidationError{Field: "startDate", Reason: "required"}
		}
		ev.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		ev.EndDate = *p.EndDate
	}
	if ev.EndDate == "" {
		ev.EndDate = ev.StartDate
	}
	if p.StartTime != nil {
		ev.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		ev.EndTime = *p.EndTime
	}
	if p.Category != nil {
		ev.Category = *p.Category
	}
	if p.Channel != nil {
		ev.Channel = *p.Channel
	}
	if p.Done != nil {
		ev.Done = *p.Done
	}
	if p.Notified != nil {
		ev.Notified = *p.Notified
	}

	if err := s.checkConflict(ev.ID, ev.StartDate, ev.StartTime, ev.EndTime); err != nil {
		return nil, err
	}
	if err := s.store.SaveEvent(ev); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return ev, nil
}

func (s *Service) GetEvent(id string) (*models.Event, error) {
	return s.store.GetEvent(id)
}

func (s *Service) DeleteEvent(id string) error {
	return s.store.DeleteEvent(id)
}

// ListEvents returns events ordered by date and time, optionally restricted
// to the [startDate, endDate] range; empty bounds list everything.
func (s *Service) ListEvents(startDate, endDate string) ([]models.Event, error) {
	return s.store.ListEvents(startDate, endDate)
}

// ResolveEvent finds an event by id when one is given, otherwise by title
// (case-insensitive, substring match allowed) narrowed by date when known.
// The chat flow uses this to locate the meeting a user wants to cancel or
// move from whatever clues the conversation yielded.
func (s *Service) ResolveEvent(id, title, date string) (*models.Event, error) {
	if id != "" {
		return s.store.GetEvent(id)
	}
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return nil, ErrNotFound
	}

	var candidates []models.Event
	var err error
	if date != "" {
		candidates, err = s.store.ListEventsByDate(date)
	} else {
		candidates, err = s.store.ListEvents("", "")
	}
	if err != nil {
		return nil, fmt.Errorf("resolve event: %w", err)
	}
	for i := range candidates {
		if strings.ToLower(candidates[i].Title) == title {
			return &candidates[i], nil
		}
	}
	for i := range candidates {
		if strings.Contains(strings.ToLower(candidates[i].Title), title) {
			return &candidates[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) checkConflict(selfID, date, startTime, endTime string) error {
	existing, err := s.store.ListEventsByDate(date)
	if err != nil {
		return fmt.Errorf("list events for %s: %w", date, err)
	}
	slots := make([]schedule.EventSlot, 0, len(existing))
	for _, ev := range existing {
		slots = append(slots, schedule.EventSlot{
			ID:        ev.ID,
			Title:     ev.Title,
			StartDate: ev.StartDate,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
		})
	}
	candidate := schedule.EventSlot{
		ID:        selfID,
		StartDate: date,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if hit, ok := schedule.FindConflict(candidate, slots); ok {
		return &schedule.ConflictError{Date: date, With: hit.Title}
	}
	return nil
}
