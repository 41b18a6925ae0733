package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/sidebar/internal/model"
)

const currentSchemaVersion = 1

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
	name string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path, name string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path, name: name}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the version recorded in the database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}
	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY NOT NULL,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bookmarks_parent ON bookmarks(parent_id, position);

		CREATE TABLE IF NOT EXISTS tab_groups (
			id INTEGER PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			color TEXT NOT NULL,
			collapsed INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS tabs (
			id INTEGER PRIMARY KEY NOT NULL,
			position INTEGER NOT NULL,
			group_id INTEGER NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			pinned INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS associations (
			tab_id INTEGER PRIMARY KEY NOT NULL,
			key TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the space from the SQLite database. An empty database yields
// an empty space.
func (s *SQLiteStorage) Load() (*model.Space, error) {
	space := model.NewSpace(s.name)

	var name string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'name'").Scan(&name)
	switch {
	case err == nil:
		space.Name = name
	case err != sql.ErrNoRows:
		return nil, err
	}

	root, err := s.loadBookmarks()
	if err != nil {
		return nil, err
	}
	if root != nil {
		space.Bookmarks = *root
	}

	if space.Groups, err = s.loadGroups(); err != nil {
		return nil, err
	}
	if space.Tabs, err = s.loadTabs(); err != nil {
		return nil, err
	}
	if space.Associations, err = s.loadAssociations(); err != nil {
		return nil, err
	}

	space.Normalize()
	return space, nil
}

func (s *SQLiteStorage) loadBookmarks() (*model.BookmarkNode, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id, title, url, kind, created_at
		FROM bookmarks
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make(map[string]*model.BookmarkNode)
	children := make(map[string][]string)
	var rootID string
	for rows.Next() {
		var n model.BookmarkNode
		var parentID sql.NullString
		var kind, createdAt string
		if err := rows.Scan(&n.ID, &parentID, &n.Title, &n.URL, &kind, &createdAt); err != nil {
			return nil, err
		}
		if err := n.Kind.UnmarshalText([]byte(kind)); err != nil {
			return nil, fmt.Errorf("bookmark %s: %w", n.ID, err)
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if parentID.Valid && parentID.String != "" {
			n.ParentID = parentID.String
			children[n.ParentID] = append(children[n.ParentID], n.ID)
		} else {
			rootID = n.ID
		}
		nodes[n.ID] = &n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rootID == "" {
		return nil, nil
	}

	var build func(id string) model.BookmarkNode
	build = func(id string) model.BookmarkNode {
		n := *nodes[id]
		for _, child := range children[id] {
			n.Children = append(n.Children, build(child))
		}
		return n
	}
	root := build(rootID)
	return &root, nil
}

func (s *SQLiteStorage) loadGroups() ([]model.TabGroup, error) {
	rows, err := s.db.Query("SELECT id, title, color, collapsed FROM tab_groups ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []model.TabGroup{}
	for rows.Next() {
		var g model.TabGroup
		var collapsed int
		if err := rows.Scan(&g.ID, &g.Title, &g.Color, &collapsed); err != nil {
			return nil, err
		}
		g.Collapsed = collapsed == 1
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *SQLiteStorage) loadTabs() ([]model.Tab, error) {
	rows, err := s.db.Query("SELECT id, position, group_id, url, title, pinned FROM tabs ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tabs := []model.Tab{}
	for rows.Next() {
		var t model.Tab
		var pinned int
		if err := rows.Scan(&t.ID, &t.Index, &t.GroupID, &t.URL, &t.Title, &pinned); err != nil {
			return nil, err
		}
		t.Pinned = pinned == 1
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

func (s *SQLiteStorage) loadAssociations() (map[int]string, error) {
	rows, err := s.db.Query("SELECT tab_id, key FROM associations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assoc := map[int]string{}
	for rows.Next() {
		var tab int
		var key string
		if err := rows.Scan(&tab, &key); err != nil {
			return nil, err
		}
		assoc[tab] = key
	}
	return assoc, rows.Err()
}

// Save writes the space to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(space *model.Space) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"bookmarks", "tabs", "tab_groups", "associations", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES ('name', ?)", space.Name); err != nil {
		return err
	}

	bookmarkStmt, err := tx.Prepare(`
		INSERT INTO bookmarks (id, parent_id, position, title, url, kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer bookmarkStmt.Close()

	var insertErr error
	var insert func(n model.BookmarkNode, parentID *string, position int)
	insert = func(n model.BookmarkNode, parentID *string, position int) {
		if insertErr != nil {
			return
		}
		if _, err := bookmarkStmt.Exec(
			n.ID, parentID, position, n.Title, n.URL, n.Kind.String(), n.CreatedAt.Format(time.RFC3339),
		); err != nil {
			insertErr = fmt.Errorf("bookmark %s: %w", n.ID, err)
			return
		}
		for i, child := range n.Children {
			insert(child, &n.ID, i)
		}
	}
	insert(space.Bookmarks, nil, 0)
	if insertErr != nil {
		return insertErr
	}

	groupStmt, err := tx.Prepare("INSERT INTO tab_groups (id, title, color, collapsed) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer groupStmt.Close()
	for _, g := range space.Groups {
		if _, err := groupStmt.Exec(g.ID, g.Title, string(g.Color), boolInt(g.Collapsed)); err != nil {
			return err
		}
	}

	tabStmt, err := tx.Prepare("INSERT INTO tabs (id, position, group_id, url, title, pinned) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer tabStmt.Close()
	for _, t := range space.Tabs {
		if _, err := tabStmt.Exec(t.ID, t.Index, t.GroupID, t.URL, t.Title, boolInt(t.Pinned)); err != nil {
			return err
		}
	}

	assocStmt, err := tx.Prepare("INSERT INTO associations (tab_id, key) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer assocStmt.Close()
	for tab, key := range space.Associations {
		if _, err := assocStmt.Exec(tab, key); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/sidebar/space.db
func DefaultSQLitePath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "space.db"), nil
}
