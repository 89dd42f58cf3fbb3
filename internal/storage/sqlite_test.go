package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/storage"
)

func openSQLite(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "bookmarks.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	s := openSQLite(t)
	tree := sampleTree()

	if err := s.Save(tree.Root()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if !model.Equal(loaded, tree.Children()) {
		t.Error("loaded tree differs from saved tree")
	}

	// IDs survive a round trip
	if loaded[0].ID != tree.Children()[0].ID {
		t.Errorf("expected ID %q, got %q", tree.Children()[0].ID, loaded[0].ID)
	}
}

func TestSQLiteStorage_LoadBeforeSave(t *testing.T) {
	s := openSQLite(t)

	_, err := s.Load()
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_EmptyTree(t *testing.T) {
	s := openSQLite(t)

	if err := s.Save(model.NewTree(nil).Root()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty tree, got %d nodes", len(loaded))
	}
}

func TestSQLiteStorage_SaveReplaces(t *testing.T) {
	s := openSQLite(t)
	tree := sampleTree()
	if err := s.Save(tree.Root()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	dev := tree.FindByPath("Development")
	if _, err := tree.Delete(dev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tree.Add("", model.NewLink("Second", "https://second.example"), 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Save(tree.Root()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !model.Equal(loaded, tree.Children()) {
		t.Error("expected second save to replace the first")
	}
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.db")
	tree := sampleTree()

	s, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := s.Save(tree.Root()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	s.Close()

	s, err = storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer s.Close()

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if !model.Equal(loaded, tree.Children()) {
		t.Error("loaded tree differs after reopening")
	}
}
