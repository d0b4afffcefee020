// ABOUTME: Consumption operations for Charm KV storage.
// ABOUTME: Uses type-prefixed keys with client-side range filtering and sorting.
package charm

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

// CreateConsumption stores a new consumption record in the KV store.
func (c *Client) CreateConsumption(r *models.Consumption) error {
	if err := r.Intake.Validate(); err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}
	data, err := marshalJSON(r)
	if err != nil {
		return fmt.Errorf("marshal consumption: %w", err)
	}
	return c.set(ConsumptionPrefix+r.ID.String(), data)
}

// ListConsumptions retrieves records in [from, to), newest first.
func (c *Client) ListConsumptions(from, to time.Time) ([]*models.Consumption, error) {
	allData, err := c.listByPrefix(ConsumptionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}

	var records []*models.Consumption
	for _, data := range allData {
		r, err := unmarshalJSON[models.Consumption](data)
		if err != nil {
			continue
		}
		if !from.IsZero() && r.ConsumedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !r.ConsumedAt.Before(to) {
			continue
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ConsumedAt.After(records[j].ConsumedAt)
	})
	return records, nil
}

// CountConsumptionsByCategory returns how many records reference a category.
func (c *Client) CountConsumptionsByCategory(categoryID uuid.UUID) (int, error) {
	records, err := c.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if r.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectAll(c)
}

// ImportData imports categories and records. KV has no transactions, so a
// failure part-way leaves the earlier entries in place.
func (c *Client) ImportData(data *storage.ExportData) error {
	for _, cat := range data.Categories {
		if err := c.CreateCategory(cat); err != nil {
			return fmt.Errorf("import category: %w", err)
		}
	}
	for _, r := range data.Consumptions {
		if err := c.CreateConsumption(r); err != nil {
			return fmt.Errorf("import consumption: %w", err)
		}
	}
	return nil
}
