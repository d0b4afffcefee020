// ABOUTME: Key-value settings store backed by badger.
// ABOUTME: Persists targets, reminder preferences, and rollover bookkeeping.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// Keys used in the settings database.
const (
	keyTargets       = "targets"
	keyReminders     = "reminders"
	keyNextReset     = "rollover:next_reset"
	keyLastActiveDay = "rollover:last_active_day"
	keyResetAt       = "rollover:reset_at"
	keyThresholds    = "notify:thresholds"
	keyAuthorization = "notify:authorization"
)

// Store is a small persistent key-value store for app settings.
type Store struct {
	db *badger.DB
}

// Open opens or creates a settings database in dir.
func Open(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(newBadgerLogger(logger))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a settings store that lives only for the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory settings: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultDir returns the settings directory inside the data dir.
func DefaultDir(dataDir string) string {
	return filepath.Join(dataDir, "settings")
}

// Close closes the settings database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// getJSON loads key into v. It reports false when the key is absent.
func (s *Store) getJSON(key string, v any) (bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// setJSON stores v under key.
func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// badgerLogger adapts a charm logger to badger.Logger.
type badgerLogger struct {
	l *log.Logger
}

func newBadgerLogger(l *log.Logger) badger.Logger {
	if l == nil {
		return nil
	}
	return badgerLogger{l: l.WithPrefix("badger")}
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.l.Errorf(f, v...) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.l.Warnf(f, v...) }
func (b badgerLogger) Infof(f string, v ...interface{})    { b.l.Debugf(f, v...) }
func (b badgerLogger) Debugf(f string, v ...interface{})   { b.l.Debugf(f, v...) }
