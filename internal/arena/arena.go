// Package arena owns bookmark tree nodes addressed by stable numeric ids.
//
// Nodes never reference each other directly: every node records its parent id
// and an ordered slice of child ids. The arena enforces the single parent per
// node and the sibling order, but performs no policy checks (root, toolbar and
// cycle protection live in package tree).
package arena

import (
	"errors"
	"slices"

	"github.com/nikbrunner/bmtree/internal/model"
)

// SkipChildren can be returned from a WalkFunc to skip the node's subtree.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every visited node. Depth is relative to the walk start.
type WalkFunc func(id model.NodeID, data model.NodeData, depth int) error

type node struct {
	data     model.NodeData
	parent   model.NodeID // zero for the root
	children []model.NodeID
}

// Arena is a sparse table of nodes. It is not safe for concurrent use.
type Arena struct {
	nodes map[model.NodeID]*node
	root  model.NodeID
	next  model.NodeID
}

// New returns an empty arena without a root.
func New() *Arena {
	return &Arena{
		nodes: make(map[model.NodeID]*node),
		next:  1,
	}
}

// CreateRoot creates the single root folder. It may only be called once.
func (a *Arena) CreateRoot(title string) (model.NodeID, error) {
	if a.root != 0 {
		return 0, model.Errf(model.ErrRootExists, a.root)
	}
	id := a.alloc()
	a.nodes[id] = &node{data: model.NewFolder(model.NewFolderParams{Title: title, IsOpen: true})}
	a.root = id
	return id, nil
}

func (a *Arena) alloc() model.NodeID {
	id := a.next
	a.next++
	return id
}

// Root returns the root id, zero if CreateRoot was never called.
func (a *Arena) Root() model.NodeID {
	return a.root
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Contains reports whether id names a live node.
func (a *Arena) Contains(id model.NodeID) bool {
	_, ok := a.nodes[id]
	return ok
}

// Get returns a copy of the node payload.
func (a *Arena) Get(id model.NodeID) (model.NodeData, error) {
	n, ok := a.nodes[id]
	if !ok {
		return model.NodeData{}, model.Errf(model.ErrNodeNotFound, id)
	}
	return n.data, nil
}

// ParentOf returns the parent id. The second result is false for the root
// and for unknown ids.
func (a *Arena) ParentOf(id model.NodeID) (model.NodeID, bool) {
	n, ok := a.nodes[id]
	if !ok || n.parent == 0 {
		return 0, false
	}
	return n.parent, true
}

// ChildrenOf returns a copy of the ordered child ids. Bookmarks and unknown
// ids have no children.
func (a *Arena) ChildrenOf(id model.NodeID) []model.NodeID {
	n, ok := a.nodes[id]
	if !ok || len(n.children) == 0 {
		return []model.NodeID{}
	}
	return slices.Clone(n.children)
}

// IndexOf returns the position of id among its siblings, -1 for the root or
// unknown ids.
func (a *Arena) IndexOf(id model.NodeID) int {
	n, ok := a.nodes[id]
	if !ok || n.parent == 0 {
		return -1
	}
	return slices.Index(a.nodes[n.parent].children, id)
}

// Toolbar returns the folder marked as toolbar, if any.
func (a *Arena) Toolbar() (model.NodeID, bool) {
	for _, id := range a.ChildrenOf(a.root) {
		if a.nodes[id].data.IsToolbar {
			return id, true
		}
	}
	return 0, false
}

// IsAncestor reports whether ancestor is id itself or lies on id's parent chain.
func (a *Arena) IsAncestor(ancestor, id model.NodeID) bool {
	for cur := id; cur != 0; {
		if cur == ancestor {
			return true
		}
		n, ok := a.nodes[cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

// Resolve turns a Position into the parent that will own the node and the
// index it will occupy in the parent's current child list.
func (a *Arena) Resolve(pos model.Position) (model.NodeID, int, error) {
	target, ok := a.nodes[pos.Target]
	if !ok {
		return 0, 0, model.Errf(model.ErrNodeIDNotFound, pos.Target)
	}

	switch pos.Placement {
	case model.PlaceBefore, model.PlaceAfter:
		if target.parent == 0 {
			return 0, 0, model.Errf(model.ErrRootSibling, pos.Target)
		}
		idx := slices.Index(a.nodes[target.parent].children, pos.Target)
		if pos.Placement == model.PlaceAfter {
			idx++
		}
		return target.parent, idx, nil
	case model.PlaceFirstChild:
		if !target.data.IsFolder() {
			return 0, 0, model.Errf(model.ErrCannotPrependAsFirstChild, pos.Target)
		}
		return pos.Target, 0, nil
	default:
		if !target.data.IsFolder() {
			return 0, 0, model.Errf(model.ErrNotFolder, pos.Target)
		}
		return pos.Target, len(target.children), nil
	}
}

// Insert creates a node at pos and returns its id.
func (a *Arena) Insert(pos model.Position, data model.NodeData) (model.NodeID, error) {
	parent, idx, err := a.Resolve(pos)
	if err != nil {
		return 0, err
	}
	id := a.alloc()
	a.nodes[id] = &node{data: data, parent: parent}
	p := a.nodes[parent]
	p.children = slices.Insert(p.children, idx, id)
	return id, nil
}

// Move detaches id from its parent and splices it into parent at idx, where
// idx is counted after the detach. Callers validate the move beforehand.
func (a *Arena) Move(id, parent model.NodeID, idx int) error {
	n, ok := a.nodes[id]
	if !ok {
		return model.Errf(model.ErrNodeNotFound, id)
	}
	dst, ok := a.nodes[parent]
	if !ok {
		return model.Errf(model.ErrNodeIDNotFound, parent)
	}
	if n.parent == 0 {
		return model.Errf(model.ErrCannotMoveRoot, id)
	}
	a.detach(id, n)
	idx = max(0, min(idx, len(dst.children)))
	dst.children = slices.Insert(dst.children, idx, id)
	n.parent = parent
	return nil
}

func (a *Arena) detach(id model.NodeID, n *node) {
	p := a.nodes[n.parent]
	if i := slices.Index(p.children, id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
}

// Remove drops id and its whole subtree.
func (a *Arena) Remove(id model.NodeID) error {
	n, ok := a.nodes[id]
	if !ok {
		return model.Errf(model.ErrNodeNotFound, id)
	}
	if n.parent == 0 {
		return model.Errf(model.ErrCannotRemoveRoot, id)
	}
	a.detach(id, n)

	stack := []model.NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c, ok := a.nodes[cur]; ok {
			stack = append(stack, c.children...)
			delete(a.nodes, cur)
		}
	}
	return nil
}

// Update applies fn to the node payload in place. The node kind cannot change.
func (a *Arena) Update(id model.NodeID, fn func(*model.NodeData)) error {
	n, ok := a.nodes[id]
	if !ok {
		return model.Errf(model.ErrNodeNotFound, id)
	}
	kind := n.data.Kind
	fn(&n.data)
	n.data.Kind = kind
	return nil
}

// Walk visits start and its descendants in pre-order.
func (a *Arena) Walk(start model.NodeID, fn WalkFunc) error {
	if _, ok := a.nodes[start]; !ok {
		return model.Errf(model.ErrNodeIDNotFound, start)
	}
	return a.walk(start, 0, fn)
}

func (a *Arena) walk(id model.NodeID, depth int, fn WalkFunc) error {
	n, ok := a.nodes[id]
	if !ok {
		return model.Errf(model.ErrNodeIDNotFound, id)
	}
	if err := fn(id, n.data, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.children {
		if err := a.walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the arena.
func (a *Arena) Clone() *Arena {
	c := &Arena{
		nodes: make(map[model.NodeID]*node, len(a.nodes)),
		root:  a.root,
		next:  a.next,
	}
	for id, n := range a.nodes {
		c.nodes[id] = &node{data: n.data, parent: n.parent, children: slices.Clone(n.children)}
	}
	return c
}
