// ABOUTME: Export and import functionality for nutrition data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats for any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for nutrition data.
type ExportData struct {
	Version      string                `json:"version" yaml:"version"`
	ExportedAt   time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool         string                `json:"tool" yaml:"tool"`
	Categories   []*models.Category    `json:"categories" yaml:"categories"`
	Consumptions []*models.Consumption `json:"consumptions" yaml:"consumptions"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectAll(d)
}

// ImportData imports categories then records inside one transaction.
func (d *DB) ImportData(data *ExportData) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range data.Categories {
		_, err := tx.Exec(`
			INSERT INTO categories (id, name, icon, is_default, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID.String(), c.Name, c.Icon, boolToInt(c.IsDefault), formatTime(c.CreatedAt))
		if err != nil {
			return fmt.Errorf("import category %q: %w", c.Name, err)
		}
	}

	for _, r := range data.Consumptions {
		if err := r.Intake.Validate(); err != nil {
			return fmt.Errorf("import consumption %s: %w", r.ID, err)
		}
		var water interface{}
		if r.Intake.IsWater() {
			water = r.Intake.Volume
		}
		_, err := tx.Exec(`
			INSERT INTO consumptions (id, category_id, category_name, category_icon, calories, water_amount, consumed_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID.String(), r.CategoryID.String(), r.CategoryName, r.CategoryIcon,
			r.Intake.Calories, water, formatTime(r.ConsumedAt), formatTime(r.CreatedAt))
		if err != nil {
			return fmt.Errorf("import consumption %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// CollectAll builds ExportData from the Repository read methods.
func CollectAll(repo Repository) (*ExportData, error) {
	categories, err := repo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	consumptions, err := repo.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}

	return &ExportData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		Tool:         "nutrition",
		Categories:   categories,
		Consumptions: consumptions,
	}, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with records grouped by day.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                   `yaml:"version"`
		ExportedAt string                   `yaml:"exported_at"`
		Tool       string                   `yaml:"tool"`
		Categories []yamlCategory           `yaml:"categories"`
		Days       map[string][]yamlConsume `yaml:"days"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Categories: make([]yamlCategory, 0, len(data.Categories)),
		Days:       make(map[string][]yamlConsume),
	}

	for _, c := range data.Categories {
		yamlData.Categories = append(yamlData.Categories, yamlCategory{
			ID:      c.ID.String()[:8],
			Name:    c.Name,
			Icon:    c.Icon,
			Default: c.IsDefault,
		})
	}

	for _, r := range data.Consumptions {
		day := r.ConsumedAt.Format("2006-01-02")
		yc := yamlConsume{
			ID:       r.ID.String()[:8],
			Category: r.CategoryName,
			Time:     r.ConsumedAt.Format("15:04"),
		}
		if r.Intake.IsWater() {
			yc.Water = r.Intake.Volume
		} else {
			yc.Calories = r.Intake.Calories
		}
		yamlData.Days[day] = append(yamlData.Days[day], yc)
	}

	return yaml.Marshal(yamlData)
}

type yamlCategory struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Icon    string `yaml:"icon,omitempty"`
	Default bool   `yaml:"default,omitempty"`
}

type yamlConsume struct {
	ID       string  `yaml:"id"`
	Category string  `yaml:"category"`
	Time     string  `yaml:"time"`
	Calories int     `yaml:"calories,omitempty"`
	Water    float64 `yaml:"water_l,omitempty"`
}

// ExportMarkdown renders a per-day report of records consumed at or after since.
func ExportMarkdown(repo Repository, since *time.Time) (string, error) {
	var from time.Time
	if since != nil {
		from = *since
	}
	records, err := repo.ListConsumptions(from, time.Time{})
	if err != nil {
		return "", err
	}

	grouped := make(map[string][]*models.Consumption)
	for _, r := range records {
		day := r.ConsumedAt.Format("2006-01-02")
		grouped[day] = append(grouped[day], r)
	}

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nutrition Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, day := range days {
		var totals models.DailyTotals
		for _, r := range grouped[day] {
			totals = totals.Add(r.Intake)
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", day))
		sb.WriteString(fmt.Sprintf("Total: %d kcal, %.2f L water\n\n", totals.Calories, totals.Water))
		sb.WriteString("| Time | Category | Amount |\n")
		sb.WriteString("|------|----------|--------|\n")
		for _, r := range grouped[day] {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				r.ConsumedAt.Format("15:04"), r.CategoryName, r.Intake))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(&exportData)
}
