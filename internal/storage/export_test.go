// ABOUTME: Tests for export and import formats.
// ABOUTME: Covers JSON round trip, YAML day grouping, and Markdown reports.
package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportDB(t *testing.T) (*DB, time.Time) {
	t.Helper()
	db := setupTestDB(t)

	c := models.NewCategory("Dinner", "moon.stars")
	if err := db.CreateCategory(c); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	day := time.Date(2025, 5, 4, 19, 0, 0, 0, time.Local)
	records := []*models.Consumption{
		models.NewConsumption(c, models.Food(800)).WithConsumedAt(day),
		models.NewConsumption(c, models.Water(0.4)).WithConsumedAt(day.Add(30 * time.Minute)),
		models.NewConsumption(c, models.Food(300)).WithConsumedAt(day.AddDate(0, 0, -3)),
	}
	for _, r := range records {
		if err := db.CreateConsumption(r); err != nil {
			t.Fatalf("CreateConsumption failed: %v", err)
		}
	}
	return db, day
}

func TestExportJSONRoundTrip(t *testing.T) {
	src, _ := seedExportDB(t)

	data, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"tool": "nutrition"`) {
		t.Errorf("expected tool marker in export: %s", data)
	}

	dst := setupTestDB(t)
	if err := ImportJSON(dst, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	records, err := dst.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListConsumptions failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 imported records, got %d", len(records))
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)
	if err := ImportJSON(db, []byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportYAMLGroupsByDay(t *testing.T) {
	db, day := seedExportDB(t)

	data, err := ExportYAML(db)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed struct {
		Days map[string][]map[string]interface{} `yaml:"days"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal YAML: %v", err)
	}
	if len(parsed.Days[day.Format("2006-01-02")]) != 2 {
		t.Errorf("expected 2 entries on %s, got %v", day.Format("2006-01-02"), parsed.Days)
	}
	if len(parsed.Days) != 2 {
		t.Errorf("expected 2 days, got %d", len(parsed.Days))
	}
}

func TestExportMarkdown(t *testing.T) {
	db, day := seedExportDB(t)

	md, err := ExportMarkdown(db, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "# Nutrition Export") {
		t.Error("missing title")
	}
	if !strings.Contains(md, "## "+day.Format("2006-01-02")) {
		t.Error("missing day heading")
	}
	if !strings.Contains(md, "Total: 800 kcal, 0.40 L water") {
		t.Errorf("missing day total in:\n%s", md)
	}
	if !strings.Contains(md, "| 19:30 | Dinner | 0.40 L |") {
		t.Errorf("missing water row in:\n%s", md)
	}
}

func TestExportMarkdownWithSince(t *testing.T) {
	db, day := seedExportDB(t)

	since := day.Add(-time.Hour)
	md, err := ExportMarkdown(db, &since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(md, day.AddDate(0, 0, -3).Format("2006-01-02")) {
		t.Error("expected older day to be filtered out")
	}
}
