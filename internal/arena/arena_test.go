package arena_test

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/model"
)

func folder(title string) model.NodeData {
	return model.NewFolder(model.NewFolderParams{Title: title})
}

func bookmark(t *testing.T, title, url string) model.NodeData {
	t.Helper()
	d, err := model.NewBookmark(model.NewBookmarkParams{Title: title, URL: url})
	assert.NilError(t, err)
	return d
}

// newArena returns an arena with root and three folders a, b, c under it.
func newArena(t *testing.T) (*arena.Arena, model.NodeID, []model.NodeID) {
	t.Helper()
	a := arena.New()
	root, err := a.CreateRoot("root")
	assert.NilError(t, err)

	var ids []model.NodeID
	for _, title := range []string{"a", "b", "c"} {
		id, err := a.Insert(model.End(root), folder(title))
		assert.NilError(t, err)
		ids = append(ids, id)
	}
	return a, root, ids
}

func TestArena_CreateRootOnce(t *testing.T) {
	a := arena.New()
	root, err := a.CreateRoot("root")
	assert.NilError(t, err)
	assert.Equal(t, a.Root(), root)

	_, err = a.CreateRoot("again")
	assert.Assert(t, errors.Is(err, model.ErrRootExists))
	assert.Equal(t, a.Len(), 1)
}

func TestArena_InsertPositions(t *testing.T) {
	tests := []struct {
		name string
		pos  func(root model.NodeID, ids []model.NodeID) model.Position
		want []string
	}{
		{
			name: "end",
			pos:  func(root model.NodeID, _ []model.NodeID) model.Position { return model.End(root) },
			want: []string{"a", "b", "c", "x"},
		},
		{
			name: "first child",
			pos:  func(root model.NodeID, _ []model.NodeID) model.Position { return model.FirstChild(root) },
			want: []string{"x", "a", "b", "c"},
		},
		{
			name: "before middle",
			pos:  func(_ model.NodeID, ids []model.NodeID) model.Position { return model.Before(ids[1]) },
			want: []string{"a", "x", "b", "c"},
		},
		{
			name: "after middle",
			pos:  func(_ model.NodeID, ids []model.NodeID) model.Position { return model.After(ids[1]) },
			want: []string{"a", "b", "x", "c"},
		},
		{
			name: "after last",
			pos:  func(_ model.NodeID, ids []model.NodeID) model.Position { return model.After(ids[2]) },
			want: []string{"a", "b", "c", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, root, ids := newArena(t)
			id, err := a.Insert(tt.pos(root, ids), folder("x"))
			assert.NilError(t, err)

			parent, ok := a.ParentOf(id)
			assert.Assert(t, ok)
			assert.Equal(t, parent, root)
			assert.DeepEqual(t, titles(t, a, root), tt.want)
		})
	}
}

func TestArena_InsertErrors(t *testing.T) {
	a, root, ids := newArena(t)
	bm, err := a.Insert(model.End(ids[0]), bookmark(t, "Go", "https://go.dev"))
	assert.NilError(t, err)

	tests := []struct {
		name string
		pos  model.Position
		want error
	}{
		{"missing parent", model.End(999), model.ErrNodeIDNotFound},
		{"missing sibling", model.Before(999), model.ErrNodeIDNotFound},
		{"sibling of root", model.After(root), model.ErrRootSibling},
		{"append to bookmark", model.End(bm), model.ErrNotFolder},
		{"prepend to bookmark", model.FirstChild(bm), model.ErrCannotPrependAsFirstChild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := a.Len()
			_, err := a.Insert(tt.pos, folder("x"))
			assert.Assert(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, a.Len(), before)
		})
	}
}

func TestArena_RemoveSubtree(t *testing.T) {
	a, root, ids := newArena(t)
	inner, err := a.Insert(model.End(ids[0]), folder("inner"))
	assert.NilError(t, err)
	leaf, err := a.Insert(model.End(inner), bookmark(t, "", "https://example.com"))
	assert.NilError(t, err)

	assert.NilError(t, a.Remove(ids[0]))

	for _, id := range []model.NodeID{ids[0], inner, leaf} {
		_, err := a.Get(id)
		assert.Assert(t, errors.Is(err, model.ErrNodeNotFound))
	}
	assert.DeepEqual(t, titles(t, a, root), []string{"b", "c"})
	assert.Equal(t, a.Len(), 3)
}

func TestArena_RemoveRoot(t *testing.T) {
	a, root, _ := newArena(t)
	err := a.Remove(root)
	assert.Assert(t, errors.Is(err, model.ErrCannotRemoveRoot))
	assert.Equal(t, a.Len(), 4)
}

func TestArena_IDsNotReused(t *testing.T) {
	a, root, ids := newArena(t)
	assert.NilError(t, a.Remove(ids[2]))

	id, err := a.Insert(model.End(root), folder("d"))
	assert.NilError(t, err)
	assert.Assert(t, id > ids[2], "id %s reused", id)
}

func TestArena_MoveCountsAfterDetach(t *testing.T) {
	a, root, ids := newArena(t)
	// Move "a" to index 1 of the list [b, c].
	assert.NilError(t, a.Move(ids[0], root, 1))
	assert.DeepEqual(t, titles(t, a, root), []string{"b", "a", "c"})
}

func TestArena_IsAncestor(t *testing.T) {
	a, root, ids := newArena(t)
	inner, err := a.Insert(model.End(ids[1]), folder("inner"))
	assert.NilError(t, err)

	assert.Assert(t, a.IsAncestor(root, inner))
	assert.Assert(t, a.IsAncestor(ids[1], inner))
	assert.Assert(t, a.IsAncestor(inner, inner))
	assert.Assert(t, !a.IsAncestor(ids[0], inner))
	assert.Assert(t, !a.IsAncestor(inner, ids[1]))
}

func TestArena_WalkSkipChildren(t *testing.T) {
	a, root, ids := newArena(t)
	_, err := a.Insert(model.End(ids[0]), folder("hidden"))
	assert.NilError(t, err)

	var seen []string
	err = a.Walk(root, func(id model.NodeID, d model.NodeData, depth int) error {
		seen = append(seen, d.Title)
		if id == ids[0] {
			return arena.SkipChildren
		}
		return nil
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, seen, []string{"root", "a", "b", "c"})
}

func TestArena_CloneIsIndependent(t *testing.T) {
	a, root, ids := newArena(t)
	c := a.Clone()

	assert.NilError(t, c.Remove(ids[0]))
	_, err := c.Insert(model.End(root), folder("z"))
	assert.NilError(t, err)

	assert.DeepEqual(t, titles(t, a, root), []string{"a", "b", "c"})
	assert.DeepEqual(t, titles(t, c, root), []string{"b", "c", "z"})
}

func TestArena_UpdateKeepsKind(t *testing.T) {
	a, _, ids := newArena(t)
	assert.NilError(t, a.Update(ids[0], func(d *model.NodeData) {
		d.Title = "renamed"
		d.Kind = model.KindBookmark
	}))
	d, err := a.Get(ids[0])
	assert.NilError(t, err)
	assert.Equal(t, d.Title, "renamed")
	assert.Assert(t, d.IsFolder())
}

func titles(t *testing.T, a *arena.Arena, parent model.NodeID) []string {
	t.Helper()
	var out []string
	for _, id := range a.ChildrenOf(parent) {
		d, err := a.Get(id)
		assert.NilError(t, err)
		out = append(out, d.Title)
	}
	return out
}
