package favicon

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Cache maps hosts to icon URLs and persists them to a JSON file.
// An empty path keeps the cache in memory only.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// OpenCache loads the cache file. A missing file starts an empty cache.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]string)}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, err
	}
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	return c, nil
}

// Get returns the cached icon URL for host.
func (c *Cache) Get(host string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	icon, ok := c.entries[host]
	return icon, ok
}

// Set stores the icon URL for host and writes the file.
func (c *Cache) Set(host, icon string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[host] == icon {
		return nil
	}
	c.entries[host] = icon
	if c.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// Len returns the number of cached hosts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
