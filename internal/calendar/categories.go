package calendar

import (
	"errors"
	"fmt"
	"strings"

	"ScheduleAssistantBot/internal/database/models"
)

// FallbackColor is used for synthesized categories and categories created
// without an explicit color.
const FallbackColor = "#9aa0a6"

var defaultCategories = []models.Category{
	{Name: "Work", Color: "#4f6df5"},
	{Name: "Personal", Color: "#2eb67d"},
}

// CreateCategory creates a category unless one with the same name (compared
// case-insensitively) already exists, in which case the existing row is
// returned, created=false, and nothing is written.
func (s *Service) CreateCategory(name, color string) (*models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	existing, err := s.store.GetCategoryByName(name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("look up category %q: %w", name, err)
	}

	if color == "" {
		color = FallbackColor
	}
	c := &models.Category{Name: name, Color: color}
	if err := s.store.CreateCategory(c); err != nil {
		return nil, false, fmt.Errorf("create category: %w", err)
	}
	s.log.Infow("category created", "id", c.ID, "name", c.Name)
	return c, true, nil
}

// EnsureDefaultCategories seeds the Work and Personal categories. Safe to run
// on every startup.
func (s *Service) EnsureDefaultCategories() error {
	for _, c := range defaultCategories {
		if _, _, err := s.CreateCategory(c.Name, c.Color); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListCategories() ([]models.Category, error) {
	return s.store.ListCategories()
}

func (s *Service) DeleteCategory(id uint) error {
	// Events referencing the category keep their reference; display falls
	// back through ResolveCategory.
	return s.store.DeleteCategory(id)
}

// ResolveCategory always returns something displayable: the stored category
// when the name matches one, otherwise a synthesized category carrying the
// dangling name (or "Uncategorized" for the empty reference) and the fallback
// color.
func (s *Service) ResolveCategory(name string) models.Category {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{Name: "Uncategorized", Color: FallbackColor}
	}
	if c, err := s.store.GetCategoryByName(name); err == nil {
		return *c
	}
	return models.Category{Name: name, Color: FallbackColor}
}
