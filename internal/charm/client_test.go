// ABOUTME: Unit tests for the Charm KV backed Repository.
// ABOUTME: Uses an in-memory store in place of the badger-backed kv.KV.
package charm

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

type memStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	readOnly bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *memStore) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = value
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *memStore) Keys() ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		out = append(out, []byte(k))
	}
	return out, nil
}

func (m *memStore) IsReadOnly() bool { return m.readOnly }
func (m *memStore) Close() error     { return nil }

func TestKeyPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{"Category", CategoryPrefix, "category:"},
		{"Consumption", ConsumptionPrefix, "consumption:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prefix != tt.expected {
				t.Errorf("Expected %s = %q, got %q", tt.name, tt.expected, tt.prefix)
			}
		})
	}
}

func TestCategoryLifecycle(t *testing.T) {
	c := newClient(newMemStore())

	lunch := models.NewCategory("Lunch", "sun.max")
	if err := c.CreateCategory(lunch); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := c.CreateCategory(models.NewCategory("breakfast", "")); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	err := c.CreateCategory(models.NewCategory("LUNCH", ""))
	if !errors.Is(err, models.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}

	list, err := c.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "breakfast" || list[1].Name != "Lunch" {
		t.Errorf("unexpected order: %v", list)
	}

	got, err := c.GetCategory(lunch.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetCategory by prefix failed: %v", err)
	}
	if got.ID != lunch.ID {
		t.Errorf("ID mismatch: %v", got.ID)
	}

	if err := c.DeleteCategory(lunch.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if err := c.DeleteCategory(lunch.ID); !errors.Is(err, models.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestGetCategoryAmbiguousOrEmptyPrefix(t *testing.T) {
	c := newClient(newMemStore())

	for _, id := range []string{
		"abcd0000-0000-4000-8000-000000000001",
		"abcd0000-0000-4000-8000-000000000002",
	} {
		cat := models.NewCategory("c-"+id[len(id)-1:], "")
		cat.ID = uuid.MustParse(id)
		if err := c.CreateCategory(cat); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
	}

	if _, err := c.GetCategory("abcd"); !errors.Is(err, models.ErrAmbiguousRef) {
		t.Errorf("expected ErrAmbiguousRef, got %v", err)
	}
	if _, err := c.GetCategory(""); !errors.Is(err, models.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound for empty prefix, got %v", err)
	}
}

func TestConsumptionRangeAndOrder(t *testing.T) {
	c := newClient(newMemStore())
	cat := models.NewCategory("Snack", "")

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
	for _, ts := range []time.Time{day.Add(-time.Minute), day, day.Add(5 * time.Hour), day.AddDate(0, 0, 1)} {
		if err := c.CreateConsumption(models.NewConsumption(cat, models.Food(100)).WithConsumedAt(ts)); err != nil {
			t.Fatalf("CreateConsumption failed: %v", err)
		}
	}
	if err := c.CreateConsumption(models.NewConsumption(cat, models.Water(0.2)).WithConsumedAt(day.Add(time.Hour))); err != nil {
		t.Fatalf("CreateConsumption failed: %v", err)
	}

	got, err := c.ListConsumptions(day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListConsumptions failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ConsumedAt.After(got[i-1].ConsumedAt) {
			t.Error("expected newest first")
		}
	}
	if !got[1].Intake.IsWater() {
		t.Errorf("expected the 01:00 record to be water, got %+v", got[1].Intake)
	}

	n, err := c.CountConsumptionsByCategory(cat.ID)
	if err != nil {
		t.Fatalf("CountConsumptionsByCategory failed: %v", err)
	}
	if n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	s := newMemStore()
	s.readOnly = true
	c := newClient(s)

	err := c.CreateCategory(models.NewCategory("Lunch", ""))
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Errorf("expected locked error, got %v", err)
	}
}

func TestGetAllDataAndImport(t *testing.T) {
	src := newClient(newMemStore())
	cat := models.NewDefaultCategory("Drink", "cup.and.saucer")
	if err := src.CreateCategory(cat); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := src.CreateConsumption(models.NewConsumption(cat, models.Water(1))); err != nil {
		t.Fatalf("CreateConsumption failed: %v", err)
	}

	data, err := src.GetAllData()
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}

	dst := newClient(newMemStore())
	if err := dst.ImportData(data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	records, _ := dst.ListConsumptions(time.Time{}, time.Time{})
	if len(records) != 1 || records[0].Intake != models.Water(1) {
		t.Errorf("imported records = %+v", records)
	}
}
