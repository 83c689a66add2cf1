package database

import (
	"errors"

	"ScheduleAssistantBot/internal/calendar"
	"ScheduleAssistantBot/internal/database/models"

	"gorm.io/gorm"
)

// Category operations

func (s *Store) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByName matches case-insensitively.
func (s *Store) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, calendar.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) CreateCategory(c *models.Category) error {
	return s.db.Create(c).Error
}

// DeleteCategory removes a category without touching events that reference
// it; dangling references are resolved at display time.
func (s *Store) DeleteCategory(id uint) error {
	result := s.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return calendar.ErrNotFound
	}
	return nil
}
