// Package page renders the host article the widget is embedded in: an HTML
// document flattened to wrapped terminal lines.
package page

import (
	"fmt"
	"html"
	"os"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Document is a parsed host page.
type Document struct {
	Title string
	root  *nethtml.Node
	raw   string
}

// Load reads an HTML page from path, or returns the built-in sample page
// when path is empty.
func Load(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Parse(SampleHTML), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read host page: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse never fails: markup the parser cannot make sense of is kept as
// plain text.
func Parse(raw string) Document {
	doc := Document{raw: raw}
	root, err := nethtml.Parse(strings.NewReader(raw))
	if err != nil {
		return doc
	}
	doc.root = findElement(root, "body")
	if title := findElement(root, "title"); title != nil {
		doc.Title = normalizeInlineText(collectRawText(title))
	}
	if doc.Title == "" {
		if h1 := findElement(doc.root, "h1"); h1 != nil {
			doc.Title = normalizeInlineText(collectRawText(h1))
		}
	}
	return doc
}

// Lines renders the page body wrapped to width columns.
func (d Document) Lines(width int) []string {
	if d.root == nil {
		text := strings.TrimSpace(html.UnescapeString(d.raw))
		if text == "" {
			return nil
		}
		return wrapText(text, width)
	}
	r := renderer{width: max(1, width)}
	return trimBlankLines(r.renderNodes(elementChildren(d.root), 0))
}

func findElement(node *nethtml.Node, tag string) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, tag) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		if child.Type == nethtml.CommentNode {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
