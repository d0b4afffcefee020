// ABOUTME: Category CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for categories.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// CreateCategory stores a new category. Name collisions (case-insensitive)
// return models.ErrDuplicateCategory.
func (d *DB) CreateCategory(c *models.Category) error {
	query := `
		INSERT INTO categories (id, name, icon, is_default, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		c.ID.String(),
		c.Name,
		c.Icon,
		boolToInt(c.IsDefault),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: categories.name") {
			return fmt.Errorf("create category %q: %w", c.Name, models.ErrDuplicateCategory)
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID or ID prefix.
func (d *DB) GetCategory(idOrPrefix string) (*models.Category, error) {
	id, err := d.resolveCategoryID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, icon, is_default, created_at
		FROM categories
		WHERE id = ?
	`
	return d.scanCategory(d.db.QueryRow(query, id))
}

// ListCategories returns all categories sorted by name.
func (d *DB) ListCategories() ([]*models.Category, error) {
	rows, err := d.db.Query(`
		SELECT id, name, icon, is_default, created_at
		FROM categories
		ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		var idStr, createdAt string
		var isDefault int
		if err := rows.Scan(&idStr, &c.Name, &c.Icon, &isDefault, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ID, _ = uuid.Parse(idStr)
		c.IsDefault = isDefault == 1
		c.CreatedAt = parseTime(createdAt)
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// DeleteCategory removes a category by ID. Guards live in the catalog;
// storage only reports a missing row.
func (d *DB) DeleteCategory(id uuid.UUID) error {
	result, err := d.db.Exec("DELETE FROM categories WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete category %s: %w", id, models.ErrCategoryNotFound)
	}
	return nil
}

// resolveCategoryID finds the full ID from a prefix.
func (d *DB) resolveCategoryID(idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty reference", models.ErrCategoryNotFound)
	}
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	rows, err := d.db.Query(`SELECT id FROM categories WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve category ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan category ID: %w", err)
		}
		matches = append(matches, id)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", models.ErrCategoryNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("prefix %s: %w", idOrPrefix, models.ErrAmbiguousRef)
	}
	return matches[0], nil
}

// scanCategory scans a single row into a Category struct.
func (d *DB) scanCategory(row *sql.Row) (*models.Category, error) {
	var c models.Category
	var idStr, createdAt string
	var isDefault int

	err := row.Scan(&idStr, &c.Name, &c.Icon, &isDefault, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	c.ID, _ = uuid.Parse(idStr)
	c.IsDefault = isDefault == 1
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Local()
}
