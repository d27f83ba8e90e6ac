// Package app ties the bookmark tree to its persistence backend: it loads the
// tree on start, tracks whether it changed and saves it on exit.
package app

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/storage"
	"github.com/nikbrunner/bmtree/internal/tree"
)

// Params configures Open.
type Params struct {
	Storage     storage.Storage
	Logger      *log.Logger
	TreeOptions tree.Options
}

// App owns the process-wide tree and its storage.
type App struct {
	tree   *tree.Tree
	store  storage.Storage
	logger *log.Logger

	mu         sync.Mutex
	dirty      bool
	subscriber tree.Notifier
}

// Open loads the saved tree. A missing snapshot starts a default tree; a
// snapshot that cannot be decoded is set aside and replaced by a default
// tree. Read errors from the backend are returned.
func Open(params Params) (*App, error) {
	logger := params.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := params.TreeOptions
	if opts.Logger == nil {
		opts.Logger = logger
	}

	a := &App{store: params.Storage, logger: logger}
	opts.Notifier = tree.NotifierFunc(a.notify)

	data, err := params.Storage.Load()
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		logger.Info("no saved bookmarks, starting with an empty tree")
		a.tree = tree.NewDefault(opts)
		return a, nil
	case err != nil:
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	t, err := tree.Load(data, opts)
	if err == nil {
		err = t.Check()
	}
	if err != nil {
		a.recover(err)
		a.tree = tree.NewDefault(opts)
		a.dirty = true
		return a, nil
	}

	a.tree = t
	s := t.Stats()
	logger.Debug("bookmarks loaded", "folders", s.Folders, "bookmarks", s.Bookmarks)
	return a, nil
}

func (a *App) recover(cause error) {
	if !errors.Is(cause, model.ErrMalformedSnapshot) && !errors.Is(cause, model.ErrCorruptTree) {
		cause = fmt.Errorf("%w: %w", model.ErrMalformedSnapshot, cause)
	}
	q, ok := a.store.(storage.Quarantiner)
	if !ok {
		a.logger.Warn("saved bookmarks unreadable, starting with an empty tree", "err", cause)
		return
	}
	path, err := q.Quarantine()
	if err != nil {
		a.logger.Warn("saved bookmarks unreadable, starting with an empty tree", "err", cause, "quarantine", err)
		return
	}
	a.logger.Warn("saved bookmarks unreadable, starting with an empty tree", "err", cause, "copy", path)
}

func (a *App) notify(e tree.Event) {
	a.mu.Lock()
	a.dirty = true
	sub := a.subscriber
	a.mu.Unlock()
	if sub != nil {
		sub.Notify(e)
	}
}

// Tree returns the loaded tree.
func (a *App) Tree() *tree.Tree {
	return a.tree
}

// Subscribe forwards change events to n. A nil n stops forwarding.
func (a *App) Subscribe(n tree.Notifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscriber = n
}

// Dirty reports whether the tree changed since it was loaded or last saved.
func (a *App) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Save writes the current tree to storage.
func (a *App) Save() error {
	data, err := a.tree.Snapshot()
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := a.store.Save(data); err != nil {
		a.logger.Error("saving bookmarks failed", "err", err)
		return fmt.Errorf("save bookmarks: %w", err)
	}

	a.mu.Lock()
	a.dirty = false
	a.mu.Unlock()
	a.logger.Debug("bookmarks saved", "bytes", len(data))
	return nil
}

// Close saves pending changes and releases the storage backend.
func (a *App) Close() error {
	var err error
	if a.Dirty() {
		err = a.Save()
	}
	if c, ok := a.store.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
