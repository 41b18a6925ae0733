package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/sidebar/internal/model"
	"github.com/nikbrunner/sidebar/internal/storage"
)

func sampleSpace() *model.Space {
	space := model.NewSpace("work")
	space.Bookmarks.Children[0].Children = []model.BookmarkNode{
		{ID: "a", Title: "Go", URL: "https://go.dev", Kind: model.KindBookmark},
		{ID: "f", Title: "Dev", Kind: model.KindFolder, Children: []model.BookmarkNode{
			{ID: "b", Title: "GitHub", URL: "https://github.com", Kind: model.KindBookmark},
			{ID: "c", Title: "GitLab", URL: "https://gitlab.com", Kind: model.KindBookmark},
		}},
	}
	space.Tabs = []model.Tab{
		{ID: 1, Index: 0, GroupID: model.GroupNone, URL: "https://go.dev", Title: "Go"},
		{ID: 2, Index: 1, GroupID: 5, URL: "https://github.com", Title: "GitHub", Pinned: true},
	}
	space.Groups = []model.TabGroup{{ID: 5, Title: "code", Color: model.ColorGreen, Collapsed: true}}
	space.Associations = map[int]string{1: "bookmark:a"}
	space.Normalize()
	return space
}

func checkSpace(t *testing.T, loaded *model.Space) {
	t.Helper()
	if loaded.Name != "work" {
		t.Errorf("expected name 'work', got %q", loaded.Name)
	}
	bar := loaded.Bookmarks.Children[0]
	if len(bar.Children) != 2 {
		t.Fatalf("expected 2 children in bar, got %d", len(bar.Children))
	}
	dev := bar.Children[1]
	if !dev.IsFolder() || dev.Title != "Dev" {
		t.Errorf("expected folder 'Dev' at index 1, got %+v", dev)
	}
	if len(dev.Children) != 2 || dev.Children[1].Title != "GitLab" || dev.Children[1].Index != 1 {
		t.Errorf("folder children not preserved: %+v", dev.Children)
	}
	if dev.Children[0].ParentID != "f" {
		t.Errorf("expected parent 'f', got %q", dev.Children[0].ParentID)
	}
	if len(loaded.Tabs) != 2 || !loaded.Tabs[1].Pinned || loaded.Tabs[1].GroupID != 5 {
		t.Errorf("tabs not preserved: %+v", loaded.Tabs)
	}
	if len(loaded.Groups) != 1 || loaded.Groups[0].Color != model.ColorGreen || !loaded.Groups[0].Collapsed {
		t.Errorf("groups not preserved: %+v", loaded.Groups)
	}
	if loaded.Associations[1] != "bookmark:a" {
		t.Errorf("associations not preserved: %v", loaded.Associations)
	}
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "space.json")

	s := storage.NewJSONStorage(path, "work")
	if err := s.Save(sampleSpace()); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("space file was not created")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	checkSpace(t, loaded)
}

func TestJSONStorage_LoadNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	s := storage.NewJSONStorage(filepath.Join(tmpDir, "nonexistent.json"), "fresh")

	space, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if space.Name != "fresh" || len(space.Tabs) != 0 {
		t.Errorf("expected empty space named 'fresh', got %+v", space)
	}
	if len(space.Bookmarks.Children) != 2 {
		t.Error("expected the built-in folders in an empty space")
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "space.json")

	s := storage.NewJSONStorage(path, "work")
	if err := s.Save(model.NewSpace("work")); err != nil {
		t.Fatalf("failed to save with nested dir: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("space file was not created in nested directory")
	}
}

func TestJSONStorage_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "space.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.NewJSONStorage(path, "work").Load(); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()

	s, err := storage.Open(filepath.Join(tmpDir, "space.json"), "work")
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Errorf("expected JSONStorage, got %T", s)
	}

	s, err = storage.Open(filepath.Join(tmpDir, "space.db"), "work")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sq, ok := s.(*storage.SQLiteStorage)
	if !ok {
		t.Fatalf("expected SQLiteStorage, got %T", s)
	}
	sq.Close()

	_, err = storage.Open(filepath.Join(tmpDir, "space.yaml"), "work")
	if !errors.Is(err, storage.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWatcher_ReloadsExternalChanges(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "space.json")
	s := storage.NewJSONStorage(path, "work")
	if err := s.Save(model.NewSpace("work")); err != nil {
		t.Fatal(err)
	}

	changed := make(chan *model.Space, 8)
	w := storage.NewWatcher(s, func(space *model.Space) { changed <- space })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// another process keeps writing until the watcher notices
	other := storage.NewJSONStorage(path, "work")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case space := <-changed:
			if len(space.Tabs) != 2 {
				t.Errorf("expected reloaded space with 2 tabs, got %d", len(space.Tabs))
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("watcher returned %v", err)
			}
			return
		case <-tick.C:
			if err := other.Save(sampleSpace()); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("watcher never reported the change")
		}
	}
}
