package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Item is a folder or bookmark read from a bookmark file. Folders have an
// empty URL.
type Item struct {
	Title     string
	URL       string
	IsOpen    bool
	IsToolbar bool
	Children  []*Item
}

// IsFolder reports whether the item is a folder.
func (it *Item) IsFolder() bool {
	return it.URL == ""
}

// ParseHTML parses Netscape bookmark HTML and returns the top-level items in
// document order. Folders marked FOLDED come back closed; the folder marked
// PERSONAL_TOOLBAR_FOLDER comes back as the toolbar.
func ParseHTML(r io.Reader) ([]*Item, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var top []*Item
	var folderStack []*Item // nil top = document level
	var pendingFolder *Item // folder waiting to be pushed on next DL

	appendItem := func(it *Item) {
		if len(folderStack) == 0 {
			top = append(top, it)
			return
		}
		parent := folderStack[len(folderStack)-1]
		parent.Children = append(parent.Children, it)
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					folder := &Item{
						Title:     name,
						IsOpen:    !hasAttr(n, "folded"),
						IsToolbar: strings.EqualFold(getAttr(n, "personal_toolbar_folder"), "true"),
					}
					appendItem(folder)
					pendingFolder = folder
				}
				return

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}
				appendItem(&Item{Title: getTextContent(n), URL: href})
				return

			case "dl":
				pushedFolder := false
				if pendingFolder != nil {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = nil
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder && len(folderStack) > 0 {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return top, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return true
		}
	}
	return false
}
