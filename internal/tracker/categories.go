// ABOUTME: Category operations with uniqueness and deletion guards.
// ABOUTME: Default categories are seeded once and can never be deleted.
package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/nutrition/internal/models"
)

// EnsureDefaults creates the built-in categories when none exist.
// A second call is a no-op.
func (t *Tracker) EnsureDefaults(ctx context.Context) error {
	return t.do(ctx, func() error {
		existing, err := t.repo.ListCategories()
		if err != nil {
			return persistErr("list categories", err)
		}
		if len(existing) > 0 {
			return nil
		}
		for _, d := range models.DefaultCategories {
			if err := t.repo.CreateCategory(models.NewDefaultCategory(d.Name, d.Icon)); err != nil {
				return persistErr("create default category "+d.Name, err)
			}
		}
		t.categories = t.listCategories()
		t.logger.Info("created default categories", "count", len(models.DefaultCategories))
		return nil
	})
}

// Categories returns all categories sorted by name.
func (t *Tracker) Categories(ctx context.Context) []*models.Category {
	var out []*models.Category
	if err := t.do(ctx, func() error {
		out = append(out, t.categories...)
		return nil
	}); err != nil {
		t.logger.Error("list categories", "err", err)
	}
	return out
}

// AddCategory creates a user category. Names are unique ignoring case.
func (t *Tracker) AddCategory(ctx context.Context, name, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var created *models.Category
	err := t.do(ctx, func() error {
		for _, c := range t.listCategories() {
			if models.SameName(c.Name, name) {
				return fmt.Errorf("add category %q: %w", name, models.ErrDuplicateCategory)
			}
		}
		c := models.NewCategory(name, icon)
		if err := t.repo.CreateCategory(c); err != nil {
			return persistErr("add category", err)
		}
		t.categories = t.listCategories()
		created = c
		t.publish(EventCategoryAdded)
		return nil
	})
	return created, err
}

// DeleteCategory removes a user category that no record references. ref is a
// name, id, or id prefix.
func (t *Tracker) DeleteCategory(ctx context.Context, ref string) error {
	return t.do(ctx, func() error {
		c, err := t.resolveCategory(ref)
		if err != nil {
			return persistErr("delete category", err)
		}
		if c.IsDefault {
			return fmt.Errorf("delete category %q: %w", c.Name, models.ErrCategoryIsDefault)
		}
		n, err := t.repo.CountConsumptionsByCategory(c.ID)
		if err != nil {
			return persistErr("delete category", err)
		}
		if n > 0 {
			return fmt.Errorf("delete category %q (%d records): %w", c.Name, n, models.ErrCategoryInUse)
		}
		if err := t.repo.DeleteCategory(c.ID); err != nil {
			return persistErr("delete category", err)
		}
		t.categories = t.listCategories()
		t.publish(EventCategoryDeleted)
		return nil
	})
}

// resolveCategory matches ref against category names first, then ids and id
// prefixes. Must run on the queue goroutine.
func (t *Tracker) resolveCategory(ref string) (*models.Category, error) {
	for _, c := range t.categories {
		if models.SameName(c.Name, ref) {
			return c, nil
		}
	}
	return t.repo.GetCategory(strings.TrimSpace(ref))
}
