// ABOUTME: Charm KV client wrapper for nutrition data storage.
// ABOUTME: Local-only embedded store with type-prefixed keys; no cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

const (
	DefaultDBName = "nutrition"

	CategoryPrefix    = "category:"
	ConsumptionPrefix = "consumption:"
)

// store is the subset of *kv.KV the client relies on.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	IsReadOnly() bool
	Close() error
}

// Compile-time check that Client implements Repository.
var _ storage.Repository = (*Client)(nil)

// Client is a Repository backed by a Charm KV database.
type Client struct {
	kv store
	mu sync.RWMutex
}

// Open opens the named Charm KV database. If another process holds the
// lock the database is opened read-only.
func Open(name string) (*Client, error) {
	if name == "" {
		name = DefaultDBName
	}
	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv %q: %w", name, err)
	}
	return newClient(db), nil
}

func newClient(s store) *Client {
	return &Client{kv: s}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like the MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// set stores a value with the given key.
func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: database is locked by another process (MCP server?)")
	}
	return c.kv.Set([]byte(key), data)
}

// delete removes a key.
func (c *Client) delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: database is locked by another process (MCP server?)")
	}
	return c.kv.Delete([]byte(key))
}

// listByPrefix returns all values with keys matching the given prefix.
func (c *Client) listByPrefix(prefix string) ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results [][]byte
	prefixBytes := []byte(prefix)

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bytes.HasPrefix(key, prefixBytes) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			results = append(results, val)
		}
	}

	return results, nil
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns error if no match or multiple matches found.
func (c *Client) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	if idPrefix == "" {
		return nil, errNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches [][]byte
	searchPrefix := []byte(typePrefix + idPrefix)

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if bytes.HasPrefix(key, searchPrefix) {
			val, err := c.kv.Get(key)
			if err != nil {
				return nil, err
			}
			matches = append(matches, val)
			if len(matches) > 1 {
				break
			}
		}
	}

	if len(matches) == 0 {
		return nil, errNotFound
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("prefix %s: %w", idPrefix, models.ErrAmbiguousRef)
	}

	return matches[0], nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// marshalJSON is a helper to marshal data to JSON.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
