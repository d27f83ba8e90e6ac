package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmtree/internal/arena"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders the tree below root in Netscape bookmark HTML format.
// The root's title becomes the document heading and its children the
// top-level entries; sibling order is kept as is.
func ExportHTML(root *arena.NestedNode) string {
	var b strings.Builder

	title := html.EscapeString(root.Title)
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(&b, "<TITLE>%s</TITLE>\n", title)
	fmt.Fprintf(&b, "<H1>%s</H1>\n", title)
	b.WriteString("<DL><p>\n")

	writeItems(&b, root.Children, 1)

	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeItems recursively writes folders and bookmarks in sibling order.
func writeItems(b *strings.Builder, nodes []*arena.NestedNode, indent int) {
	prefix := strings.Repeat("    ", indent)

	for _, n := range nodes {
		if n.IsBookmark() {
			fmt.Fprintf(b,
				"%s<DT><A HREF=\"%s\">%s</A>\n",
				prefix,
				html.EscapeString(n.URL),
				html.EscapeString(n.Title),
			)
			continue
		}

		var attrs string
		if n.IsToolbar {
			attrs += ` PERSONAL_TOOLBAR_FOLDER="true"`
		}
		if !n.IsOpen {
			attrs += " FOLDED"
		}
		fmt.Fprintf(b, "%s<DT><H3%s>%s</H3>\n", prefix, attrs, html.EscapeString(n.Title))
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)
		writeItems(b, n.Children, indent+1)
		fmt.Fprintf(b, "%s</DL><p>\n", prefix)
	}
}
