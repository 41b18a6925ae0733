// Package storage persists spaces: the bookmark tree, the open tabs and
// groups, and the tab associations.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/sidebar/internal/model"
)

// ErrUnsupportedFormat is returned by Open for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported storage format")

// Storage defines the interface for persisting a space.
type Storage interface {
	Load() (*model.Space, error)
	Save(space *model.Space) error
	Path() string
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
	name string
}

// NewJSONStorage creates a new JSONStorage with the given file path. name
// is the space name used when the file does not exist yet.
func NewJSONStorage(path, name string) *JSONStorage {
	return &JSONStorage{path: path, name: name}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the space from the JSON file.
// Returns an empty space if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Space, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewSpace(s.name), nil
		}
		return nil, err
	}

	var space model.Space
	if err := json.Unmarshal(data, &space); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if space.Name == "" {
		space.Name = s.name
	}
	space.Normalize()
	return &space, nil
}

// Save writes the space to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(space *model.Space) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(space, "", "  ")
	if err != nil {
		return err
	}

	// the watcher must never see a half-written file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// DefaultDir returns the default data directory: ~/.config/sidebar
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sidebar"), nil
}

// DefaultPath returns the default space file: ~/.config/sidebar/space.json
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "space.json"), nil
}

// Open picks the backend from the file extension: .json for JSON, .db or
// .sqlite for SQLite.
func Open(path, name string) (Storage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONStorage(path, name), nil
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStorage(path, name)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}
