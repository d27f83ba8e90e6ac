// Package tree implements the invariant-preserving bookmark operations on top
// of an arena.
//
// A Tree guards its arena with a single mutex: every operation, read or
// write, holds it for its whole duration because root, toolbar and cycle
// checks need a consistent view of the full tree. Successful mutations
// publish an Event carrying a fresh nested JSON export.
package tree

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

const (
	// DefaultRootTitle is the title of a freshly created root.
	DefaultRootTitle = "Bookmarks"
	// DefaultToolbarTitle is the title of a freshly created toolbar folder.
	DefaultToolbarTitle = "Toolbar"
	// DefaultNotifyDepth is the export depth used for change events.
	DefaultNotifyDepth = 1
)

// Options configures a Tree.
type Options struct {
	Notifier     Notifier
	NotifyDepth  int
	ToolbarTitle string
	Logger       *log.Logger
}

// DefaultOptions returns options without a notifier.
func DefaultOptions() Options {
	return Options{
		NotifyDepth:  DefaultNotifyDepth,
		ToolbarTitle: DefaultToolbarTitle,
	}
}

// Tree is the process-wide bookmark tree.
type Tree struct {
	mu    sync.Mutex
	arena *arena.Arena
	opts  Options
}

// New wraps an existing arena. The arena must already have a root.
func New(a *arena.Arena, opts Options) *Tree {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.ToolbarTitle == "" {
		opts.ToolbarTitle = DefaultToolbarTitle
	}
	return &Tree{arena: a, opts: opts}
}

// NewDefault creates a tree holding only the root and the toolbar folder.
func NewDefault(opts Options) *Tree {
	t := New(arena.New(), opts)
	root, _ := t.arena.CreateRoot(DefaultRootTitle)
	_, _ = t.arena.Insert(model.End(root), model.NewFolder(model.NewFolderParams{
		Title:     t.opts.ToolbarTitle,
		IsOpen:    true,
		IsToolbar: true,
	}))
	return t
}

// Load rebuilds a tree from a persisted snapshot.
func Load(data []byte, opts Options) (*Tree, error) {
	a, err := arena.FromPersisted(data)
	if err != nil {
		return nil, err
	}
	return New(a, opts), nil
}

// SetNotifier replaces the change notifier.
func (t *Tree) SetNotifier(n Notifier) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts.Notifier = n
}

// Root returns the id of the root folder.
func (t *Tree) Root() model.NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.Root()
}

// mutate runs fn under the lock. On success the change event payload is
// rendered before the lock is released and published after.
func (t *Tree) mutate(op string, fn func(a *arena.Arena) error) error {
	t.mu.Lock()
	if err := fn(t.arena); err != nil {
		t.mu.Unlock()
		t.opts.Logger.Debug("rejected", "op", op, "err", err)
		return err
	}
	payload, err := t.arena.NestedJSON(t.arena.Root(), t.opts.NotifyDepth)
	notifier := t.opts.Notifier
	t.mu.Unlock()
	if err != nil {
		t.opts.Logger.Error("export after mutation", "op", op, "err", err)
		return err
	}

	t.opts.Logger.Debug("applied", "op", op)
	if notifier != nil {
		notifier.Notify(newEvent(op, payload))
	}
	return nil
}

// Apply runs fn against a copy of the arena and swaps the copy in only when
// fn succeeds and the result still satisfies every tree invariant. It is
// used for bulk changes such as imports.
func (t *Tree) Apply(op string, fn func(a *arena.Arena) error) error {
	return t.mutate(op, func(a *arena.Arena) error {
		c := a.Clone()
		if err := fn(c); err != nil {
			return err
		}
		if err := Check(c); err != nil {
			return err
		}
		t.arena = c
		return nil
	})
}
