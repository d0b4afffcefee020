// ABOUTME: Data migration between nutrition storage backends.
// ABOUTME: Copies categories and consumption records from source to destination.

package storage

import (
	"fmt"
	"os"
	"time"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Categories   int
	Consumptions int
}

// MigrateData copies all data from src to dst storage.
// Categories go first so the destination's in-use guard sees their records.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	categories, err := src.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("list source categories: %w", err)
	}
	for _, c := range categories {
		if err := dst.CreateCategory(c); err != nil {
			return nil, fmt.Errorf("create category %s: %w", c.ID, err)
		}
		summary.Categories++
	}

	records, err := src.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("list source consumptions: %w", err)
	}
	for _, r := range records {
		if err := dst.CreateConsumption(r); err != nil {
			return nil, fmt.Errorf("create consumption %s: %w", r.ID, err)
		}
		summary.Consumptions++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
