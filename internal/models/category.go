// ABOUTME: Category model for meal and drink groupings.
// ABOUTME: Defines the five built-in defaults and case-insensitive name matching.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups consumption records (breakfast, lunch, custom ones...).
type Category struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Icon      string    `json:"icon" yaml:"icon"`
	IsDefault bool      `json:"is_default" yaml:"is_default"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DefaultCategories are created on first run and can never be deleted.
var DefaultCategories = []struct {
	Name string
	Icon string
}{
	{"Breakfast", "sunrise"},
	{"Lunch", "sun.max"},
	{"Dinner", "moon.stars"},
	{"Snack", "carrot"},
	{"Drink", "cup.and.saucer"},
}

// NewCategory creates a user category with a generated UUID.
func NewCategory(name, icon string) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		CreatedAt: time.Now(),
	}
}

// NewDefaultCategory creates one of the built-in categories.
func NewDefaultCategory(name, icon string) *Category {
	c := NewCategory(name, icon)
	c.IsDefault = true
	return c
}

// SameName reports whether two category names collide (case-insensitive, trimmed).
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
