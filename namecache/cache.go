// Package namecache persists resolved talkgroup names between runs so the
// rate-limited name endpoint is only asked about IDs we have never seen.
package namecache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble"
)

const keyPrefix = "tg|"

// Cache is a small id->name store. A nil *Cache is valid and behaves as an
// always-missing, write-discarding cache, so callers can disable caching by
// simply not opening one.
type Cache struct {
	db *pebble.DB
}

// Open opens (or creates) the cache at path.
func Open(path string) (*Cache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("namecache: path is empty")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("namecache: open %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached name for a talkgroup ID.
func (c *Cache) Get(id int64) (string, bool) {
	if c == nil || c.db == nil {
		return "", false
	}
	value, closer, err := c.db.Get(key(id))
	if err != nil {
		return "", false
	}
	name := string(value)
	closer.Close()
	return name, true
}

// Put stores a resolved name. Empty names are not cached so a later run can
// retry the lookup.
func (c *Cache) Put(id int64, name string) error {
	if c == nil || c.db == nil || name == "" {
		return nil
	}
	if err := c.db.Set(key(id), []byte(name), pebble.Sync); err != nil {
		return fmt.Errorf("namecache: put %d: %w", id, err)
	}
	return nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func key(id int64) []byte {
	return []byte(keyPrefix + strconv.FormatInt(id, 10))
}
