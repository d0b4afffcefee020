// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers SQLite-to-SQLite migration and directory helpers.
package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)

	breakfast := models.NewDefaultCategory("Breakfast", "sunrise")
	custom := models.NewCategory("Second breakfast", "")
	for _, c := range []*models.Category{breakfast, custom} {
		if err := src.CreateCategory(c); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}
	if err := src.CreateConsumption(models.NewConsumption(breakfast, models.Food(420))); err != nil {
		t.Fatalf("CreateConsumption failed: %v", err)
	}
	if err := src.CreateConsumption(models.NewConsumption(custom, models.Water(0.25))); err != nil {
		t.Fatalf("CreateConsumption failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Categories != 2 {
		t.Errorf("Expected 2 migrated categories, got %d", summary.Categories)
	}
	if summary.Consumptions != 2 {
		t.Errorf("Expected 2 migrated consumptions, got %d", summary.Consumptions)
	}

	records, err := dst.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListConsumptions from dst failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records in dst, got %d", len(records))
	}

	n, err := dst.CountConsumptionsByCategory(breakfast.ID)
	if err != nil {
		t.Fatalf("CountConsumptionsByCategory failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected category reference to survive migration, got %d", n)
	}
}

func TestMigrateDataDuplicateInDestination(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)

	if err := src.CreateCategory(models.NewCategory("Lunch", "")); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := dst.CreateCategory(models.NewCategory("lunch", "")); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	if _, err := MigrateData(src, dst); err == nil {
		t.Error("expected migration into a non-empty destination to fail")
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	nonEmpty, err := IsDirNonEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty failed: %v", err)
	}
	if nonEmpty {
		t.Error("expected empty dir")
	}

	if err := os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	nonEmpty, err = IsDirNonEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirNonEmpty failed: %v", err)
	}
	if !nonEmpty {
		t.Error("expected non-empty dir")
	}

	missing, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || missing {
		t.Errorf("missing dir = %v, %v", missing, err)
	}
}
