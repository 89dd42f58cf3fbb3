package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fjvi/bm/internal/model"
)

// SQLiteStorage implements Storage using a SQLite database.
// Nodes are stored as an adjacency list ordered by position.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
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

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
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

// migrate runs database migrations.
func (s *SQLiteStorage) migrate() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist or is empty, start fresh
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

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			is_folder INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (parent_id) REFERENCES nodes(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent_position ON nodes(parent_id, position);

		CREATE TABLE IF NOT EXISTS saves (
			saved_at TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the tree from the SQLite database.
// Returns ErrNotFound if nothing has ever been saved.
func (s *SQLiteStorage) Load() ([]*model.Node, error) {
	var saves int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM saves").Scan(&saves); err != nil {
		return nil, err
	}
	if saves == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.db.Query(`
		SELECT id, parent_id, title, url, is_folder
		FROM nodes
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type row struct {
		node     *model.Node
		parentID sql.NullString
	}
	var all []row
	byID := make(map[string]*model.Node)

	for rows.Next() {
		var r row
		var isFolder int
		n := &model.Node{}

		if err := rows.Scan(&n.ID, &r.parentID, &n.Title, &n.URL, &isFolder); err != nil {
			return nil, err
		}
		if isFolder == 1 {
			n.Children = []*model.Node{}
		}

		r.node = n
		all = append(all, r)
		byID[n.ID] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Rows arrive grouped by parent and ordered by position, so appending
	// keeps sibling order.
	top := []*model.Node{}
	for _, r := range all {
		if !r.parentID.Valid {
			top = append(top, r.node)
			continue
		}
		parent := byID[r.parentID.String]
		if parent == nil {
			continue
		}
		parent.Children = append(parent.Children, r.node)
	}

	return top, nil
}

// Save writes the tree to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(root *model.Node) error {
	if root == nil {
		return model.NoDataToExport()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Clear existing data
	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM saves"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (id, parent_id, position, title, url, is_folder)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	// Parents are inserted before their children to satisfy the foreign key.
	var insert func(nodes []*model.Node, parentID *string) error
	insert = func(nodes []*model.Node, parentID *string) error {
		for i, n := range nodes {
			id := n.ID
			if id == "" {
				id = model.GenerateUUID()
			}
			isFolder := 0
			if n.IsFolder() {
				isFolder = 1
			}
			if _, err := stmt.Exec(id, parentID, i, n.Title, n.URL, isFolder); err != nil {
				return err
			}
			if err := insert(n.Children, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(root.Children, nil); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO saves (saved_at) VALUES (?)", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}
