package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 2

// DefaultSnapshotHistory is the number of snapshots kept when none is configured.
const DefaultSnapshotHistory = 10

// SQLiteStorage implements Storage using a SQLite database. Every Save
// appends a snapshot row; Load returns the newest one.
type SQLiteStorage struct {
	db      *sql.DB
	path    string
	history int
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	ID        int64
	CreatedAt time.Time
	Size      int
}

// NewSQLiteStorage opens the database at path, keeping at most history
// snapshots (DefaultSnapshotHistory when history <= 0).
func NewSQLiteStorage(path string, history int) (*SQLiteStorage, error) {
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

	if history <= 0 {
		history = DefaultSnapshotHistory
	}
	s := &SQLiteStorage{db: db, path: path, history: history}
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

	if version < 2 {
		if err := s.migrateV2(); err != nil {
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

		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 records the payload size so history listings need not read data.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		ALTER TABLE snapshots ADD COLUMN size INTEGER NOT NULL DEFAULT 0;
		UPDATE snapshots SET size = length(data);
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Load returns the newest snapshot.
func (s *SQLiteStorage) Load() ([]byte, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return []byte(data), nil
}

// Save appends a snapshot and prunes rows beyond the history limit.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(data []byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (data, created_at, size) VALUES (?, ?, ?)`,
		string(data), time.Now().UTC().Format(time.RFC3339Nano), len(data),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)
	`, s.history); err != nil {
		return err
	}

	return tx.Commit()
}

// Snapshots lists the stored snapshots, newest first.
func (s *SQLiteStorage) Snapshots() ([]SnapshotInfo, error) {
	rows, err := s.db.Query(`SELECT id, created_at, size FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		var createdAt string
		if err := rows.Scan(&info.ID, &createdAt, &info.Size); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
