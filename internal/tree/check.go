package tree

import (
	"fmt"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

// Check walks the arena and reports the first broken invariant: a single
// parentless root, every node reachable exactly once, parent links matching
// child lists, leaf bookmarks with web URLs, and at most one toolbar folder
// sitting directly under the root.
func Check(a *arena.Arena) error {
	root := a.Root()
	rootData, err := a.Get(root)
	if err != nil {
		return fmt.Errorf("%w: missing root", model.ErrCorruptTree)
	}
	if _, ok := a.ParentOf(root); ok {
		return fmt.Errorf("%w: root has a parent", model.ErrCorruptTree)
	}
	if !rootData.IsFolder() || rootData.IsToolbar {
		return fmt.Errorf("%w: root must be a plain folder", model.ErrCorruptTree)
	}

	seen := map[model.NodeID]bool{root: true}
	toolbars := 0
	stack := []model.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		data, err := a.Get(id)
		if err != nil {
			return fmt.Errorf("%w: dangling id %s", model.ErrCorruptTree, id)
		}
		children := a.ChildrenOf(id)
		if data.IsBookmark() {
			if len(children) > 0 {
				return fmt.Errorf("%w: bookmark %s has children", model.ErrCorruptTree, id)
			}
			if _, err := model.ParseWebURL(data.URL); err != nil {
				return fmt.Errorf("%w: bookmark %s: %w", model.ErrCorruptTree, id, err)
			}
		}
		if data.IsToolbar {
			toolbars++
			if parent, _ := a.ParentOf(id); parent != root {
				return fmt.Errorf("%w: toolbar %s is not a child of root", model.ErrCorruptTree, id)
			}
		}

		for _, c := range children {
			if seen[c] {
				return fmt.Errorf("%w: node %s reached twice", model.ErrCorruptTree, c)
			}
			seen[c] = true
			if parent, ok := a.ParentOf(c); !ok || parent != id {
				return fmt.Errorf("%w: node %s has wrong parent link", model.ErrCorruptTree, c)
			}
			stack = append(stack, c)
		}
	}

	if toolbars > 1 {
		return fmt.Errorf("%w: %d toolbar folders", model.ErrCorruptTree, toolbars)
	}
	if len(seen) != a.Len() {
		return fmt.Errorf("%w: %d unreachable nodes", model.ErrCorruptTree, a.Len()-len(seen))
	}
	return nil
}
