package model

import "strconv"

// NodeID is the opaque numeric handle of a node inside an arena.
// Zero is never a valid id.
type NodeID uint64

// String implements fmt.Stringer.
func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseNodeID parses a decimal node handle as passed by the command layer.
func ParseNodeID(s string) (NodeID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, &NodeError{Err: ErrNodeNotFound, ID: 0}
	}
	return NodeID(n), nil
}

// NodeKind distinguishes the node variants.
type NodeKind int

const (
	KindFolder NodeKind = iota
	KindBookmark
)

// NodeType values as they appear in the nested JSON export.
const (
	TypeRoot     = "Root"
	TypeFolder   = "Folder"
	TypeBookmark = "Bookmark"
)

// NodeData is the payload stored for every node.
// URL is only meaningful for bookmarks; IsOpen and IsToolbar only for folders.
type NodeData struct {
	Kind      NodeKind
	Title     string
	URL       string
	IsOpen    bool
	IsToolbar bool
}

// IsFolder reports whether the node can hold children.
func (d NodeData) IsFolder() bool {
	return d.Kind == KindFolder
}

// IsBookmark reports whether the node is a leaf bookmark.
func (d NodeData) IsBookmark() bool {
	return d.Kind == KindBookmark
}
