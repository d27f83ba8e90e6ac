package tui

import (
	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

// Row is one visible line of the tree view.
type Row struct {
	Node   *arena.NestedNode
	Parent model.NodeID
	Depth  int
}

// ID returns the node id of the row.
func (r Row) ID() model.NodeID {
	return r.Node.ID
}

// Title returns the display title.
func (r Row) Title() string {
	return r.Node.Title
}

// IsFolder returns true if this row is a folder.
func (r Row) IsFolder() bool {
	return !r.Node.IsBookmark()
}

// flatten lists the rows below root in display order. Children of closed
// folders are hidden.
func flatten(root *arena.NestedNode) []Row {
	var rows []Row
	var walk func(n *arena.NestedNode, depth int)
	walk = func(n *arena.NestedNode, depth int) {
		for _, c := range n.Children {
			rows = append(rows, Row{Node: c, Parent: n.ID, Depth: depth})
			if !c.IsBookmark() && c.IsOpen {
				walk(c, depth+1)
			}
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return rows
}
