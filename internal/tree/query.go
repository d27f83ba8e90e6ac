package tree

import (
	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

// FolderEntry is a folder as listed in the folder picker.
type FolderEntry struct {
	ID        model.NodeID
	Title     string
	IsOpen    bool
	IsToolbar bool
	IsRoot    bool
	// Path is the " / " joined chain of titles from the root.
	Path  string
	Depth int
}

// PathSeparator joins folder titles in FolderEntry.Path.
const PathSeparator = " / "

// BookmarkEntry is a bookmark together with its location.
type BookmarkEntry struct {
	ID     model.NodeID
	Parent model.NodeID
	Title  string
	URL    string
}

// Stats summarizes the tree size.
type Stats struct {
	Folders   int
	Bookmarks int
}

// Get returns a copy of a node payload.
func (t *Tree) Get(id model.NodeID) (model.NodeData, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.Get(id)
}

// Parent returns the parent of id; false for the root or unknown ids.
func (t *Tree) Parent(id model.NodeID) (model.NodeID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.ParentOf(id)
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id model.NodeID) []model.NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.ChildrenOf(id)
}

// RootAndChildrenFolders returns the root followed by the folders that are
// direct children of the root, in sibling order.
func (t *Tree) RootAndChildrenFolders() []FolderEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	root := t.arena.Root()
	data, err := t.arena.Get(root)
	if err != nil {
		return nil
	}
	rootEntry := folderEntry(root, data, FolderEntry{})
	entries := []FolderEntry{rootEntry}
	for _, id := range t.arena.ChildrenOf(root) {
		d, err := t.arena.Get(id)
		if err != nil || !d.IsFolder() {
			continue
		}
		entries = append(entries, folderEntry(id, d, rootEntry))
	}
	return entries
}

// Folders returns every folder, the root first, in pre-order.
func (t *Tree) Folders() []FolderEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var entries []FolderEntry
	parents := map[model.NodeID]FolderEntry{}
	root := t.arena.Root()
	_ = t.arena.Walk(root, func(id model.NodeID, d model.NodeData, _ int) error {
		if !d.IsFolder() {
			return nil
		}
		var e FolderEntry
		if id == root {
			e = folderEntry(id, d, FolderEntry{})
		} else {
			parent, _ := t.arena.ParentOf(id)
			e = folderEntry(id, d, parents[parent])
		}
		parents[id] = e
		entries = append(entries, e)
		return nil
	})
	return entries
}

// folderEntry builds the entry for id below parent; a zero parent marks id
// as the root.
func folderEntry(id model.NodeID, d model.NodeData, parent FolderEntry) FolderEntry {
	e := FolderEntry{
		ID:        id,
		Title:     d.Title,
		IsOpen:    d.IsOpen,
		IsToolbar: d.IsToolbar,
		IsRoot:    parent.ID == 0,
		Path:      d.Title,
	}
	if !e.IsRoot {
		e.Path = parent.Path + PathSeparator + d.Title
		e.Depth = parent.Depth + 1
	}
	return e
}

// ToolbarBookmarks returns the bookmarks directly inside the toolbar folder.
func (t *Tree) ToolbarBookmarks() ([]BookmarkEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	toolbar, ok := t.arena.Toolbar()
	if !ok {
		return nil, model.ErrToolbarFolderNotFound
	}
	entries := []BookmarkEntry{}
	for _, id := range t.arena.ChildrenOf(toolbar) {
		d, err := t.arena.Get(id)
		if err != nil {
			return nil, model.Errf(model.ErrNodeIDNotFound, id)
		}
		if d.IsBookmark() {
			entries = append(entries, BookmarkEntry{ID: id, Parent: toolbar, Title: d.Title, URL: d.URL})
		}
	}
	return entries, nil
}

// Bookmarks returns every bookmark in pre-order.
func (t *Tree) Bookmarks() ([]BookmarkEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := []BookmarkEntry{}
	err := t.arena.Walk(t.arena.Root(), func(id model.NodeID, d model.NodeData, _ int) error {
		if d.IsBookmark() {
			parent, _ := t.arena.ParentOf(id)
			entries = append(entries, BookmarkEntry{ID: id, Parent: parent, Title: d.Title, URL: d.URL})
		}
		return nil
	})
	return entries, err
}

// Stats counts folders (the root included) and bookmarks.
func (t *Tree) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var s Stats
	_ = t.arena.Walk(t.arena.Root(), func(_ model.NodeID, d model.NodeData, _ int) error {
		if d.IsBookmark() {
			s.Bookmarks++
		} else {
			s.Folders++
		}
		return nil
	})
	return s
}

// Nested returns the export tree below root, see arena.Arena.Nested.
func (t *Tree) Nested(root model.NodeID, maxDepth int) (*arena.NestedNode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.Nested(root, maxDepth)
}

// NestedJSON renders the subtree below root. Nodes deeper than maxDepth are
// omitted; arena.Unbounded exports everything.
func (t *Tree) NestedJSON(root model.NodeID, maxDepth int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.arena.NestedJSON(root, maxDepth)
}

// Snapshot encodes the full tree for persistence. The lock is held only
// while encoding; writing the bytes is up to the caller.
func (t *Tree) Snapshot() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return arena.ToPersisted(t.arena)
}

// Check verifies the structural invariants of the whole tree.
func (t *Tree) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Check(t.arena)
}
