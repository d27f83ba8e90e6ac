package model

import (
	"errors"
	"fmt"
)

// Not-found errors
var (
	// ErrNodeIDNotFound indicates that a referenced id (parent, sibling or
	// child-list entry) does not exist in the arena.
	ErrNodeIDNotFound = errors.New("node id not found")

	// ErrNodeNotFound indicates that the node an operation acts on does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrToolbarFolderNotFound indicates that no folder is marked as toolbar.
	ErrToolbarFolderNotFound = errors.New("toolbar folder not found")
)

// Structural errors
var (
	ErrCannotRemoveRoot          = errors.New("cannot remove root node")
	ErrCannotMoveRoot            = errors.New("cannot move root")
	ErrCannotMoveToDescendant    = errors.New("cannot move to descendant")
	ErrSameSourceAndDestination  = errors.New("source and destination are the same")
	ErrCannotPrependAsFirstChild = errors.New("cannot prepend as a first child")
	ErrCannotRemoveToolbar       = errors.New("cannot remove toolbar folder")
	ErrCannotMoveToolbar         = errors.New("cannot move toolbar folder")

	// ErrRootSibling indicates a Before/After position relative to the root.
	ErrRootSibling = errors.New("root cannot have siblings")

	// ErrNotFolder indicates a folder-only operation on a bookmark.
	ErrNotFolder = errors.New("node is not a folder")

	// ErrNotBookmark indicates a bookmark-only operation on a folder.
	ErrNotBookmark = errors.New("node is not a bookmark")

	// ErrRootExists indicates a second CreateRoot call.
	ErrRootExists = errors.New("root already exists")
)

// Validation errors
var (
	ErrNotWebURL  = errors.New("not a web url")
	ErrInvalidURL = errors.New("invalid url")
)

// Persistence errors
var (
	// ErrMalformedSnapshot indicates a persisted tree that cannot be decoded
	// into a well-formed arena.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrCorruptTree indicates a broken structural invariant. It signals a
	// bug, never bad input.
	ErrCorruptTree = errors.New("corrupt tree")
)

// NodeError attaches the offending node id to one of the sentinel errors.
type NodeError struct {
	Err error
	ID  NodeID
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.ID)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Errf wraps a sentinel with the node id it concerns.
func Errf(err error, id NodeID) error {
	return &NodeError{Err: err, ID: id}
}
