// ABOUTME: Repository interface for nutrition data storage.
// ABOUTME: Defines the persistence boundary for categories and consumption records.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// Repository defines the storage interface for nutrition data.
// Consumption records are append-only: there is no update or delete.
type Repository interface {
	// Category operations
	CreateCategory(c *models.Category) error
	GetCategory(idOrPrefix string) (*models.Category, error)
	ListCategories() ([]*models.Category, error)
	DeleteCategory(id uuid.UUID) error

	// Consumption operations
	CreateConsumption(r *models.Consumption) error
	// ListConsumptions returns records with from <= ConsumedAt < to, newest first.
	// A zero from or to leaves that side of the range open.
	ListConsumptions(from, to time.Time) ([]*models.Consumption, error)
	CountConsumptionsByCategory(categoryID uuid.UUID) (int, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
