package page

import (
	"fmt"
	"strings"

	nethtml "golang.org/x/net/html"
)

type renderer struct {
	width int
}

func (r renderer) renderNodes(nodes []*nethtml.Node, listDepth int) []string {
	lines := make([]string, 0, len(nodes)*2)
	inlineParts := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flushInline := func() {
		text := normalizeInlineText(strings.Join(inlineParts, " "))
		inlineParts = inlineParts[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inlineParts = append(inlineParts, node.Data)
		case nethtml.ElementNode:
			if isBlockElement(node.Data) {
				flushInline()
				appendBlock(r.renderBlock(node, listDepth))
				continue
			}
			inlineParts = append(inlineParts, r.renderInlineNode(node))
		}
	}
	flushInline()
	return trimBlankLines(lines)
}

func (r renderer) renderBlock(node *nethtml.Node, listDepth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript", "img":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		prefix := headingPrefix(level)
		text := normalizeInlineText(r.renderInlineChildren(node))
		return styleNonBlankLines(
			wrapPrefixedText(text, r.width, prefix, strings.Repeat(" ", visibleLen(prefix))),
			headingStyle,
		)
	case "blockquote":
		inner := renderer{width: max(1, r.width-2)}.renderNodes(elementChildren(node), listDepth)
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, quotePrefix+quoteText.Render(line))
		}
		return out
	case "ul":
		return r.renderList(node, false, listDepth+1)
	case "ol":
		return r.renderList(node, true, listDepth+1)
	case "pre":
		text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
		out := make([]string, 0, 8)
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, "    "+codeStyle.Render(line))
		}
		return trimBlankLines(out)
	case "hr":
		return []string{ruleStyle.Render(strings.Repeat("─", min(max(r.width, 3), 24)))}
	case "li":
		return r.renderListItem(node, listDepth, "- ")
	default:
		if hasBlockChild(node) {
			return r.renderNodes(elementChildren(node), listDepth)
		}
		text := normalizeInlineText(r.renderInlineChildren(node))
		if text == "" {
			return nil
		}
		return wrapText(text, r.width)
	}
}

func (r renderer) renderList(node *nethtml.Node, ordered bool, listDepth int) []string {
	lines := make([]string, 0, 16)
	itemIndex := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || strings.ToLower(child.Data) != "li" {
			continue
		}
		itemIndex++
		marker := unorderedListMarker(listDepth)
		if ordered {
			marker = fmt.Sprintf("%d. ", itemIndex)
		}
		lines = append(lines, r.renderListItem(child, listDepth, marker)...)
	}
	return trimBlankLines(lines)
}

func (r renderer) renderListItem(node *nethtml.Node, listDepth int, marker string) []string {
	indent := strings.Repeat("  ", max(0, listDepth-1))
	lines := make([]string, 0, 4)

	textParts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isListTag(child.Data) {
			continue
		}
		textParts = append(textParts, r.renderInlineNode(child))
	}
	if text := normalizeInlineText(strings.Join(textParts, " ")); text != "" {
		lines = append(lines, wrapPrefixedText(text, r.width, indent+marker, indent+strings.Repeat(" ", visibleLen(marker)))...)
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !isListTag(child.Data) {
			continue
		}
		lines = append(lines, r.renderList(child, strings.EqualFold(child.Data, "ol"), listDepth+1)...)
	}
	return lines
}

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.renderInlineNode(child))
	}
	return strings.Join(parts, " ")
}

func (r renderer) renderInlineNode(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(r.renderInlineChildren(node))
			href := nodeAttr(node, "href")
			switch {
			case href == "":
				return text
			case text == "" || strings.EqualFold(text, href):
				return href
			default:
				return text + " (" + href + ")"
			}
		case "code", "kbd", "samp":
			text := normalizeInlineText(r.renderInlineChildren(node))
			if text == "" {
				return ""
			}
			return codeStyle.Render("`" + text + "`")
		default:
			return r.renderInlineChildren(node)
		}
	default:
		return ""
	}
}

func isListTag(tag string) bool {
	return strings.EqualFold(tag, "ul") || strings.EqualFold(tag, "ol")
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "section", "article", "main", "header", "footer", "aside", "nav",
		"blockquote", "ul", "ol", "li", "pre", "figure", "figcaption", "hr", "img",
		"script", "style", "noscript":
		return true
	default:
		return false
	}
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}

func headingPrefix(level int) string {
	level = min(max(level, 1), len(headingBars))
	return headingBars[level-1].Render("▌") + strings.Repeat(" ", max(1, level-1))
}

func unorderedListMarker(listDepth int) string {
	switch listDepth {
	case 1:
		return "• "
	case 2:
		return "◦ "
	default:
		return "▪ "
	}
}
