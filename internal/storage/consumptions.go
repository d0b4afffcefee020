// ABOUTME: Consumption CRUD operations for SQLite storage.
// ABOUTME: Maps the Food/Water variant onto a nullable water_amount column.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// CreateConsumption stores a new consumption record.
func (d *DB) CreateConsumption(r *models.Consumption) error {
	if err := r.Intake.Validate(); err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}

	var water sql.NullFloat64
	if r.Intake.IsWater() {
		water = sql.NullFloat64{Float64: r.Intake.Volume, Valid: true}
	}

	query := `
		INSERT INTO consumptions (id, category_id, category_name, category_icon, calories, water_amount, consumed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		r.ID.String(),
		r.CategoryID.String(),
		r.CategoryName,
		r.CategoryIcon,
		r.Intake.Calories,
		water,
		formatTime(r.ConsumedAt),
		formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}
	return nil
}

// ListConsumptions retrieves records in [from, to), newest first.
func (d *DB) ListConsumptions(from, to time.Time) ([]*models.Consumption, error) {
	var where []string
	var args []interface{}

	if !from.IsZero() {
		where = append(where, "consumed_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		where = append(where, "consumed_at < ?")
		args = append(args, formatTime(to))
	}

	query := `
		SELECT id, category_id, category_name, category_icon, calories, water_amount, consumed_at, created_at
		FROM consumptions
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY consumed_at DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()

	return d.scanConsumptions(rows)
}

// CountConsumptionsByCategory returns how many records reference a category.
func (d *DB) CountConsumptionsByCategory(categoryID uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(1) FROM consumptions WHERE category_id = ?`, categoryID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count consumptions for category %s: %w", categoryID, err)
	}
	return count, nil
}

// scanConsumptions scans multiple rows into a slice of Consumption records.
func (d *DB) scanConsumptions(rows *sql.Rows) ([]*models.Consumption, error) {
	var records []*models.Consumption

	for rows.Next() {
		var r models.Consumption
		var idStr, categoryID, consumedAt, createdAt string
		var calories int
		var water sql.NullFloat64

		err := rows.Scan(&idStr, &categoryID, &r.CategoryName, &r.CategoryIcon, &calories, &water, &consumedAt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}

		r.ID, _ = uuid.Parse(idStr)
		r.CategoryID, _ = uuid.Parse(categoryID)
		if water.Valid {
			r.Intake = models.Water(water.Float64)
		} else {
			r.Intake = models.Food(calories)
		}
		r.ConsumedAt = parseTime(consumedAt)
		r.CreatedAt = parseTime(createdAt)

		records = append(records, &r)
	}

	return records, rows.Err()
}
