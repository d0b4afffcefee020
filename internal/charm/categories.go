// ABOUTME: Category operations for Charm KV storage.
// ABOUTME: Enforces case-insensitive name uniqueness client-side.
package charm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

var errNotFound = errors.New("not found")

// CreateCategory stores a new category in the KV store.
func (c *Client) CreateCategory(cat *models.Category) error {
	existing, err := c.ListCategories()
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	for _, e := range existing {
		if models.SameName(e.Name, cat.Name) {
			return fmt.Errorf("create category %q: %w", cat.Name, models.ErrDuplicateCategory)
		}
	}

	data, err := marshalJSON(cat)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	return c.set(CategoryPrefix+cat.ID.String(), data)
}

// GetCategory retrieves a category by ID or ID prefix.
func (c *Client) GetCategory(idOrPrefix string) (*models.Category, error) {
	data, err := c.getByIDPrefix(CategoryPrefix, idOrPrefix)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrCategoryNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	cat, err := unmarshalJSON[models.Category](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal category: %w", err)
	}
	return cat, nil
}

// ListCategories returns all categories sorted by name (case-insensitive).
func (c *Client) ListCategories() ([]*models.Category, error) {
	allData, err := c.listByPrefix(CategoryPrefix)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	var categories []*models.Category
	for _, data := range allData {
		cat, err := unmarshalJSON[models.Category](data)
		if err != nil {
			continue // Skip invalid entries
		}
		categories = append(categories, cat)
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	return categories, nil
}

// DeleteCategory removes a category by ID.
func (c *Client) DeleteCategory(id uuid.UUID) error {
	if _, err := c.GetCategory(id.String()); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := c.delete(CategoryPrefix + id.String()); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
