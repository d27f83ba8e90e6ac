package arena

import (
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/bmtree/internal/model"
)

// Unbounded disables the depth limit of NestedJSON.
const Unbounded = -1

// NestedNode is one element of the nested export. Folders serialize as
// {id, node_type, title, is_open, is_toolbar, children}, bookmarks as
// {id, node_type, title, url, host}.
type NestedNode struct {
	ID        model.NodeID
	NodeType  string
	Title     string
	URL       string
	Host      string
	IsOpen    bool
	IsToolbar bool
	Children  []*NestedNode
}

// IsBookmark reports whether the element is a bookmark.
func (n *NestedNode) IsBookmark() bool {
	return n.NodeType == model.TypeBookmark
}

type folderJSON struct {
	ID        model.NodeID  `json:"id"`
	NodeType  string        `json:"node_type"`
	Title     string        `json:"title"`
	IsOpen    bool          `json:"is_open"`
	IsToolbar bool          `json:"is_toolbar"`
	Children  []*NestedNode `json:"children"`
}

type bookmarkJSON struct {
	ID       model.NodeID `json:"id"`
	NodeType string       `json:"node_type"`
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Host     string       `json:"host"`
}

type wireJSON struct {
	ID        model.NodeID  `json:"id"`
	NodeType  string        `json:"node_type"`
	Title     string        `json:"title"`
	URL       string        `json:"url"`
	Host      string        `json:"host"`
	IsOpen    bool          `json:"is_open"`
	IsToolbar bool          `json:"is_toolbar"`
	Children  []*NestedNode `json:"children"`
}

// MarshalJSON implements json.Marshaler.
func (n NestedNode) MarshalJSON() ([]byte, error) {
	if n.IsBookmark() {
		return json.Marshal(bookmarkJSON{
			ID:       n.ID,
			NodeType: n.NodeType,
			Title:    n.Title,
			URL:      n.URL,
			Host:     n.Host,
		})
	}
	children := n.Children
	if children == nil {
		children = []*NestedNode{}
	}
	return json.Marshal(folderJSON{
		ID:        n.ID,
		NodeType:  n.NodeType,
		Title:     n.Title,
		IsOpen:    n.IsOpen,
		IsToolbar: n.IsToolbar,
		Children:  children,
	})
}

// UnmarshalJSON implements json.Unmarshaler. A missing node_type is inferred
// from the presence of a url.
func (n *NestedNode) UnmarshalJSON(data []byte) error {
	var w wireJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.NodeType == "" {
		w.NodeType = model.TypeFolder
		if w.URL != "" {
			w.NodeType = model.TypeBookmark
		}
	}
	*n = NestedNode(w)
	return nil
}

// Nested builds the export tree below root. Nodes deeper than maxDepth
// (root is depth 0) are omitted, a negative maxDepth means no limit.
func (a *Arena) Nested(root model.NodeID, maxDepth int) (*NestedNode, error) {
	return a.nested(root, 0, maxDepth)
}

func (a *Arena) nested(id model.NodeID, depth, maxDepth int) (*NestedNode, error) {
	n, ok := a.nodes[id]
	if !ok {
		return nil, model.Errf(model.ErrNodeIDNotFound, id)
	}

	out := &NestedNode{
		ID:    id,
		Title: n.data.Title,
	}
	if n.data.IsBookmark() {
		out.NodeType = model.TypeBookmark
		out.URL = n.data.URL
		out.Host = model.Host(n.data.URL)
		return out, nil
	}

	out.NodeType = model.TypeFolder
	if id == a.root {
		out.NodeType = model.TypeRoot
	}
	out.IsOpen = n.data.IsOpen
	out.IsToolbar = n.data.IsToolbar
	out.Children = []*NestedNode{}
	if maxDepth >= 0 && depth >= maxDepth {
		return out, nil
	}
	for _, c := range n.children {
		child, err := a.nested(c, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, child)
	}
	return out, nil
}

// NestedJSON renders the subtree below root as compact JSON.
func (a *Arena) NestedJSON(root model.NodeID, maxDepth int) (string, error) {
	tree, err := a.Nested(root, maxDepth)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToPersisted encodes the full tree as an indented snapshot.
func ToPersisted(a *Arena) ([]byte, error) {
	tree, err := a.Nested(a.root, Unbounded)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}

// FromPersisted rebuilds an arena from a snapshot written by ToPersisted.
// Node ids are preserved; new ids continue after the largest one.
func FromPersisted(data []byte) (*Arena, error) {
	var top NestedNode
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedSnapshot, err)
	}
	if top.IsBookmark() {
		return nil, fmt.Errorf("%w: top level node is a bookmark", model.ErrMalformedSnapshot)
	}
	if top.IsToolbar {
		return nil, fmt.Errorf("%w: root marked as toolbar", model.ErrMalformedSnapshot)
	}

	a := New()
	b := &builder{arena: a}
	if err := b.add(&top, 0); err != nil {
		return nil, err
	}
	a.root = top.ID
	return a, nil
}

type builder struct {
	arena   *Arena
	toolbar model.NodeID
}

func (b *builder) add(n *NestedNode, parent model.NodeID) error {
	a := b.arena
	if n.ID == 0 {
		return fmt.Errorf("%w: node without id", model.ErrMalformedSnapshot)
	}
	if a.Contains(n.ID) {
		return fmt.Errorf("%w: duplicate id %s", model.ErrMalformedSnapshot, n.ID)
	}

	var data model.NodeData
	switch n.NodeType {
	case model.TypeBookmark:
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: bookmark %s has children", model.ErrMalformedSnapshot, n.ID)
		}
		if _, err := model.ParseWebURL(n.URL); err != nil {
			return fmt.Errorf("%w: bookmark %s: %w", model.ErrMalformedSnapshot, n.ID, err)
		}
		data = model.NodeData{Kind: model.KindBookmark, Title: n.Title, URL: n.URL}
	case model.TypeFolder, model.TypeRoot:
		if n.NodeType == model.TypeRoot && parent != 0 {
			return fmt.Errorf("%w: nested root %s", model.ErrMalformedSnapshot, n.ID)
		}
		if n.IsToolbar {
			if parent == 0 || parent != b.rootID() {
				return fmt.Errorf("%w: toolbar %s is not a child of root", model.ErrMalformedSnapshot, n.ID)
			}
			if b.toolbar != 0 {
				return fmt.Errorf("%w: second toolbar %s", model.ErrMalformedSnapshot, n.ID)
			}
			b.toolbar = n.ID
		}
		data = model.NewFolder(model.NewFolderParams{Title: n.Title, IsOpen: n.IsOpen, IsToolbar: n.IsToolbar})
	default:
		return fmt.Errorf("%w: unknown node type %q", model.ErrMalformedSnapshot, n.NodeType)
	}

	a.nodes[n.ID] = &node{data: data, parent: parent}
	if n.ID >= a.next {
		a.next = n.ID + 1
	}
	if parent == 0 {
		a.root = n.ID
	} else {
		p := a.nodes[parent]
		p.children = append(p.children, n.ID)
	}

	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%w: null child in %s", model.ErrMalformedSnapshot, n.ID)
		}
		if err := b.add(c, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) rootID() model.NodeID {
	return b.arena.root
}
