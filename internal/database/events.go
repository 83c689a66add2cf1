package database

import (
	"errors"

	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/database/models"

	"gorm.io/gorm"
)

// Event operations

func (s *Store) CreateEvent(ev *models.Event) error {
	return s.db.Create(ev).Error
}

func (s *Store) SaveEvent(ev *models.Event) error {
	return s.db.Save(ev).Error
}

func (s *Store) GetEvent(id string) (*models.Event, error) {
	var ev models.Event
	err := s.db.First(&ev, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, calendar.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Store) DeleteEvent(id string) error {
	result := s.db.Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return calendar.ErrNotFound
	}
	return nil
}

// ListEvents returns events ordered by date and time. Non-empty bounds
// restrict the result to events fully inside [startDate, endDate].
func (s *Store) ListEvents(startDate, endDate string) ([]models.Event, error) {
	query := s.db.Order("start_date, start_time")
	if startDate != "" && endDate != "" {
		query = query.Where("start_date >= ? AND end_date <= ?", startDate, endDate)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventsByDate returns every event starting on the given date, the input
// to the overlap check.
func (s *Store) ListEventsByDate(date string) ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("start_date = ?", date).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DueEvents returns events starting on the given date that have not been
// notified yet, the input to the reminder sweep.
func (s *Store) DueEvents(date string) ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("start_date = ? AND notified = ?", date, false).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// MarkNotified sets the notified flag; already-marked events are untouched.
func (s *Store) MarkNotified(id string) error {
	return s.db.Model(&models.Event{}).Where("id = ?", id).Update("notified", true).Error
}

// CompleteEvent marks an event done and notified, used for events whose start
// has already passed.
func (s *Store) CompleteEvent(id string) error {
	return s.db.Model(&models.Event{}).Where("id = ?", id).
		Updates(map[string]interface{}{"done": true, "notified": true}).Error
}
