package importer

import (
	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/tree"
)

// Result counts what an import changed.
type Result struct {
	Folders       int // folders created
	FoldersReused int // folders merged into an existing one of the same title
	Bookmarks     int // bookmarks added
	Duplicates    int // bookmarks skipped because the URL already exists
	Invalid       int // bookmarks skipped because the URL is not a web URL
}

// Import merges items into the folder parent as one atomic change: either
// everything is inserted or the tree is left untouched.
//
// Folders are reused when parent already holds a folder of the same title,
// and a toolbar folder is merged into the tree's toolbar. Bookmarks whose URL
// is already somewhere in the tree are skipped.
func Import(t *tree.Tree, parent model.NodeID, items []*Item) (Result, error) {
	var res Result
	err := t.Apply("import", func(a *arena.Arena) error {
		res = Result{}
		d, err := a.Get(parent)
		if err != nil {
			return model.Errf(model.ErrNodeIDNotFound, parent)
		}
		if !d.IsFolder() {
			return model.Errf(model.ErrNotFolder, parent)
		}

		m := &merger{a: a, res: &res, urls: map[string]bool{}}
		m.toolbar, m.hasToolbar = a.Toolbar()
		_ = a.Walk(a.Root(), func(_ model.NodeID, d model.NodeData, _ int) error {
			if d.IsBookmark() {
				m.urls[d.URL] = true
			}
			return nil
		})
		return m.insert(parent, items)
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

type merger struct {
	a          *arena.Arena
	res        *Result
	urls       map[string]bool
	toolbar    model.NodeID
	hasToolbar bool
}

func (m *merger) insert(parent model.NodeID, items []*Item) error {
	for _, it := range items {
		if !it.IsFolder() {
			if err := m.insertBookmark(parent, it); err != nil {
				return err
			}
			continue
		}

		folder, err := m.folderFor(parent, it)
		if err != nil {
			return err
		}
		if err := m.insert(folder, it.Children); err != nil {
			return err
		}
	}
	return nil
}

func (m *merger) insertBookmark(parent model.NodeID, it *Item) error {
	data, err := model.NewBookmark(model.NewBookmarkParams{Title: it.Title, URL: it.URL})
	if err != nil {
		m.res.Invalid++
		return nil
	}
	if m.urls[data.URL] {
		m.res.Duplicates++
		return nil
	}
	if _, err := m.a.Insert(model.End(parent), data); err != nil {
		return err
	}
	m.urls[data.URL] = true
	m.res.Bookmarks++
	return nil
}

// folderFor returns the folder the item's children go into, creating one when
// no folder can be reused.
func (m *merger) folderFor(parent model.NodeID, it *Item) (model.NodeID, error) {
	if it.IsToolbar && m.hasToolbar {
		m.res.FoldersReused++
		return m.toolbar, nil
	}
	for _, id := range m.a.ChildrenOf(parent) {
		d, err := m.a.Get(id)
		if err != nil {
			return 0, err
		}
		if d.IsFolder() && !d.IsToolbar && d.Title == it.Title {
			m.res.FoldersReused++
			return id, nil
		}
	}

	makeToolbar := it.IsToolbar && parent == m.a.Root()
	id, err := m.a.Insert(model.End(parent), model.NewFolder(model.NewFolderParams{
		Title:     it.Title,
		IsOpen:    it.IsOpen,
		IsToolbar: makeToolbar,
	}))
	if err != nil {
		return 0, err
	}
	if makeToolbar {
		m.toolbar, m.hasToolbar = id, true
	}
	m.res.Folders++
	return id, nil
}
