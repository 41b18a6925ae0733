package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/storage"
)

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "space.db")

	s, err := storage.NewSQLiteStorage(dbPath, "work")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if err := s.Save(sampleSpace()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	checkSpace(t, loaded)
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "empty.db"), "fresh")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	space, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load empty database: %v", err)
	}
	if space.Name != "fresh" {
		t.Errorf("expected name 'fresh', got %q", space.Name)
	}
	if len(space.Tabs) != 0 || len(space.Groups) != 0 {
		t.Errorf("expected empty space, got %+v", space)
	}
	if space.Bookmarks.ID != model.RootID {
		t.Errorf("expected the built-in root, got %q", space.Bookmarks.ID)
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "nested", "dir", "space.db"), "work")
	if err != nil {
		t.Fatalf("failed to create storage in nested dir: %v", err)
	}
	s.Close()
}

func TestSQLiteStorage_SaveReplacesPreviousContent(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "space.db"), "work")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if err := s.Save(sampleSpace()); err != nil {
		t.Fatal(err)
	}
	smaller := model.NewSpace("other")
	smaller.Tabs = []model.Tab{{ID: 9, GroupID: model.GroupNone, URL: "https://x.example"}}
	if err := s.Save(smaller); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "other" || len(loaded.Tabs) != 1 || len(loaded.Associations) != 0 {
		t.Errorf("expected only the second save, got %+v", loaded)
	}
	if len(loaded.Bookmarks.Children[0].Children) != 0 {
		t.Error("expected old bookmarks to be gone")
	}
}

func TestSQLiteStorage_ReopenKeepsSchema(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "space.db")

	s, err := storage.NewSQLiteStorage(dbPath, "work")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(sampleSpace()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = storage.NewSQLiteStorage(dbPath, "work")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil || version != 1 {
		t.Errorf("expected schema version 1, got %d (%v)", version, err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	checkSpace(t, loaded)
}
