package tree

import (
	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

// AddBookmark appends a bookmark to parent. An empty title defaults to the URL.
func (t *Tree) AddBookmark(parent model.NodeID, rawURL, title string) (model.NodeID, error) {
	return t.InsertBookmark(model.End(parent), rawURL, title)
}

// InsertBookmark creates a bookmark at pos.
func (t *Tree) InsertBookmark(pos model.Position, rawURL, title string) (model.NodeID, error) {
	data, err := model.NewBookmark(model.NewBookmarkParams{Title: title, URL: rawURL})
	if err != nil {
		return 0, err
	}
	var id model.NodeID
	err = t.mutate("add_bookmark", func(a *arena.Arena) error {
		id, err = a.Insert(pos, data)
		return err
	})
	return id, err
}

// AddFolder appends a closed folder to parent.
func (t *Tree) AddFolder(parent model.NodeID, title string) (model.NodeID, error) {
	return t.InsertFolder(model.End(parent), title)
}

// InsertFolder creates a closed folder at pos.
func (t *Tree) InsertFolder(pos model.Position, title string) (model.NodeID, error) {
	data := model.NewFolder(model.NewFolderParams{Title: title})
	var id model.NodeID
	err := t.mutate("add_folder", func(a *arena.Arena) error {
		var err error
		id, err = a.Insert(pos, data)
		return err
	})
	return id, err
}

// AppendBookmarkToToolbar appends a bookmark to the toolbar folder.
func (t *Tree) AppendBookmarkToToolbar(rawURL, title string) (model.NodeID, error) {
	data, err := model.NewBookmark(model.NewBookmarkParams{Title: title, URL: rawURL})
	if err != nil {
		return 0, err
	}
	var id model.NodeID
	err = t.mutate("append_bookmark_to_toolbar", func(a *arena.Arena) error {
		toolbar, ok := a.Toolbar()
		if !ok {
			return model.ErrToolbarFolderNotFound
		}
		id, err = a.Insert(model.End(toolbar), data)
		return err
	})
	return id, err
}

// RemoveBookmark removes a bookmark or a folder with its whole subtree.
// The root and the toolbar folder cannot be removed.
func (t *Tree) RemoveBookmark(id model.NodeID) error {
	return t.mutate("remove_bookmark", func(a *arena.Arena) error {
		if id == a.Root() {
			return model.Errf(model.ErrCannotRemoveRoot, id)
		}
		data, err := a.Get(id)
		if err != nil {
			return err
		}
		if data.IsToolbar {
			return model.Errf(model.ErrCannotRemoveToolbar, id)
		}
		return a.Remove(id)
	})
}

// UpdateTitle renames any node, the root included.
func (t *Tree) UpdateTitle(id model.NodeID, title string) error {
	return t.mutate("update_title", func(a *arena.Arena) error {
		return a.Update(id, func(d *model.NodeData) { d.Title = title })
	})
}

// UpdateURL replaces the URL of a bookmark.
func (t *Tree) UpdateURL(id model.NodeID, rawURL string) error {
	u, err := model.ParseWebURL(rawURL)
	if err != nil {
		return err
	}
	return t.mutate("update_url", func(a *arena.Arena) error {
		data, err := a.Get(id)
		if err != nil {
			return err
		}
		if !data.IsBookmark() {
			return model.Errf(model.ErrNotBookmark, id)
		}
		return a.Update(id, func(d *model.NodeData) { d.URL = u.String() })
	})
}

// MoveNode reparents or reorders id to dest. The request is rejected when
// it would not change anything, or when dest lies inside id's own subtree.
func (t *Tree) MoveNode(id model.NodeID, dest model.Position) error {
	return t.mutate("move_node", func(a *arena.Arena) error {
		if id == a.Root() {
			return model.Errf(model.ErrCannotMoveRoot, id)
		}
		data, err := a.Get(id)
		if err != nil {
			return err
		}
		if data.IsToolbar {
			return model.Errf(model.ErrCannotMoveToolbar, id)
		}

		parent, idx, err := a.Resolve(dest)
		if err != nil {
			return err
		}

		// idx is relative to the parent's current children; shift it to
		// the list as it will look once id is detached.
		curParent, _ := a.ParentOf(id)
		curIdx := a.IndexOf(id)
		if parent == curParent && curIdx < idx {
			idx--
		}
		if parent == curParent && idx == curIdx {
			return model.Errf(model.ErrSameSourceAndDestination, id)
		}

		if a.IsAncestor(id, parent) {
			return model.Errf(model.ErrCannotMoveToDescendant, id)
		}

		return a.Move(id, parent, idx)
	})
}

// InsertBefore moves id directly before target.
func (t *Tree) InsertBefore(id, target model.NodeID) error {
	return t.MoveNode(id, model.Before(target))
}

// InsertAfter moves id directly after target.
func (t *Tree) InsertAfter(id, target model.NodeID) error {
	return t.MoveNode(id, model.After(target))
}

// AppendToChild moves id to the end of target's children.
func (t *Tree) AppendToChild(id, target model.NodeID) error {
	return t.MoveNode(id, model.End(target))
}

// PrependToChild moves id to the front of target's children.
func (t *Tree) PrependToChild(id, target model.NodeID) error {
	return t.MoveNode(id, model.FirstChild(target))
}

// SetIsOpen sets the expand state of a folder. Bookmarks are rejected with
// ErrNotFolder.
func (t *Tree) SetIsOpen(id model.NodeID, open bool) error {
	return t.mutate("set_is_open", func(a *arena.Arena) error {
		return setOpen(a, id, func(bool) bool { return open })
	})
}

// ToggleIsOpen flips the expand state of a folder.
func (t *Tree) ToggleIsOpen(id model.NodeID) error {
	return t.mutate("toggle_is_open", func(a *arena.Arena) error {
		return setOpen(a, id, func(cur bool) bool { return !cur })
	})
}

func setOpen(a *arena.Arena, id model.NodeID, next func(bool) bool) error {
	data, err := a.Get(id)
	if err != nil {
		return err
	}
	if !data.IsFolder() {
		return model.Errf(model.ErrNotFolder, id)
	}
	return a.Update(id, func(d *model.NodeData) { d.IsOpen = next(d.IsOpen) })
}
