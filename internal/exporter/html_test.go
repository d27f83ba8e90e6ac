package exporter_test

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/golden"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/exporter"
	"github.com/nikbrunner/bmtree/internal/importer"
	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/tree"
)

func sampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	tr := tree.NewDefault(tree.DefaultOptions())
	_, err := tr.AppendBookmarkToToolbar("https://go.dev", "Go")
	assert.NilError(t, err)
	dev, err := tr.AddFolder(tr.Root(), "Dev & Tools")
	assert.NilError(t, err)
	_, err = tr.AddBookmark(dev, "https://example.com/?a=1&b=2", "<Example>")
	assert.NilError(t, err)
	_, err = tr.AddBookmark(tr.Root(), "https://news.ycombinator.com", "HN")
	assert.NilError(t, err)
	return tr
}

func nested(t *testing.T, tr *tree.Tree) *arena.NestedNode {
	t.Helper()
	n, err := tr.Nested(tr.Root(), arena.Unbounded)
	assert.NilError(t, err)
	return n
}

func TestExportHTML_Golden(t *testing.T) {
	got := exporter.ExportHTML(nested(t, sampleTree(t)))
	golden.Assert(t, got, "export.golden")
}

func TestExportHTML_EmptyTree(t *testing.T) {
	a := arena.New()
	_, err := a.CreateRoot("Bookmarks")
	assert.NilError(t, err)
	tr := tree.New(a, tree.DefaultOptions())

	html := exporter.ExportHTML(nested(t, tr))

	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<H1>Bookmarks</H1>") {
		t.Error("expected H1 element")
	}
	if strings.Contains(html, "<DT>") {
		t.Error("expected no entries")
	}
}

func TestExportHTML_KeepsMixedOrder(t *testing.T) {
	tr := tree.NewDefault(tree.DefaultOptions())
	root := tr.Root()
	_, err := tr.AddBookmark(root, "https://first.example", "first")
	assert.NilError(t, err)
	_, err = tr.AddFolder(root, "second")
	assert.NilError(t, err)
	_, err = tr.AddBookmark(root, "https://third.example", "third")
	assert.NilError(t, err)

	html := exporter.ExportHTML(nested(t, tr))
	first := strings.Index(html, "first</A>")
	second := strings.Index(html, "second</H3>")
	third := strings.Index(html, "third</A>")
	assert.Assert(t, first >= 0 && first < second && second < third, html)
}

func TestExportImportRoundtrip(t *testing.T) {
	src := sampleTree(t)
	html := exporter.ExportHTML(nested(t, src))

	items, err := importer.ParseHTML(strings.NewReader(html))
	assert.NilError(t, err)

	a := arena.New()
	_, err = a.CreateRoot(tree.DefaultRootTitle)
	assert.NilError(t, err)
	dst := tree.New(a, tree.DefaultOptions())
	_, err = importer.Import(dst, dst.Root(), items)
	assert.NilError(t, err)

	assert.DeepEqual(t, strip(nested(t, dst)), strip(nested(t, src)))
}

// strip drops ids so trees built separately can be compared.
func strip(n *arena.NestedNode) *arena.NestedNode {
	out := *n
	out.ID = model.NodeID(0)
	out.Children = nil
	for _, c := range n.Children {
		out.Children = append(out.Children, strip(c))
	}
	return &out
}
