package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjvi/bm/internal/config"
	"github.com/fjvi/bm/internal/exporter"
	"github.com/fjvi/bm/internal/importer"
	"github.com/fjvi/bm/internal/model"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no saved bookmarks")

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	// Load returns the saved top-level nodes.
	Load() ([]*model.Node, error)
	// Save replaces the saved tree with the root's children.
	Save(root *model.Node) error
	Path() string
	Close() error
}

// JSONStorage implements Storage using a JSON file in canonical form.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Close is a no-op.
func (s *JSONStorage) Close() error {
	return nil
}

// Load reads the tree from the JSON file.
// Returns ErrNotFound if the file doesn't exist.
func (s *JSONStorage) Load() ([]*model.Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return importer.ParseJSON(data)
}

// Save writes the tree to the JSON file.
// Creates the directory if it doesn't exist. The file is replaced
// atomically so a failed save leaves the previous one intact.
func (s *JSONStorage) Save(root *model.Node) error {
	data, err := exporter.JSON(root)
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".bookmarks-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// OpenStorage opens the storage backend selected in the config.
func OpenStorage(cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return NewSQLiteStorage(cfg.SQLitePath())
	case config.BackendJSON, "":
		return NewJSONStorage(cfg.JSONPath()), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
