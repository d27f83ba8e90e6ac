package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

// Storage persists the encoded tree snapshot.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Quarantiner is implemented by backends that can set aside data that
// failed to decode so a fresh save does not destroy it.
type Quarantiner interface {
	Quarantine() (string, error)
}

// JSONStorage implements Storage using a JSON file.
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

// Load reads the snapshot file.
func (s *JSONStorage) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoSnapshot
	}
	return data, nil
}

// Save replaces the snapshot file atomically. The previous file is kept
// as <path>.bak.
func (s *JSONStorage) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := filepath.Base(s.path)

	if prev, err := os.ReadFile(s.path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, base+".bak.*.tmp", s.path+".bak", prev, 0o644)
	}

	if err := atomicWriteFile(dir, base+".*.tmp", s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Quarantine copies the current file to <path>.corrupt and returns that path.
func (s *JSONStorage) Quarantine() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	dst := s.path + ".corrupt"
	if err := atomicWriteFile(filepath.Dir(s.path), filepath.Base(dst)+".*.tmp", dst, data, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// ConfigDir returns the directory holding data and config files:
// $BMTREE_CONFIG_DIR when set, ~/.config/bmtree otherwise.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("BMTREE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmtree"), nil
}

// DefaultJSONPath returns the default snapshot path: ~/.config/bmtree/bookmarks.json
func DefaultJSONPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.json"), nil
}

// DefaultSQLitePath returns the default database path: ~/.config/bmtree/bookmarks.db
func DefaultSQLitePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.db"), nil
}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// OpenParams selects a storage backend.
type OpenParams struct {
	Backend string
	// Path overrides the backend's default file location.
	Path string
	// History is the number of snapshots the SQLite backend keeps.
	History int
}

// Open opens the requested backend. An empty backend prefers SQLite when the
// database file already exists and falls back to JSON.
func Open(params OpenParams) (Storage, error) {
	backend := params.Backend
	if backend == "" {
		backend = BackendJSON
		if sqlitePath, err := DefaultSQLitePath(); err == nil && params.Path == "" {
			if _, err := os.Stat(sqlitePath); err == nil {
				backend = BackendSQLite
			}
		}
	}

	switch backend {
	case BackendJSON:
		path := params.Path
		if path == "" {
			var err error
			if path, err = DefaultJSONPath(); err != nil {
				return nil, err
			}
		}
		return NewJSONStorage(path), nil
	case BackendSQLite:
		path := params.Path
		if path == "" {
			var err error
			if path, err = DefaultSQLitePath(); err != nil {
				return nil, err
			}
		}
		return NewSQLiteStorage(path, params.History)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
