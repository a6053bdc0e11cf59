package dom

import (
	"strings"

	"github.com/3-lines-studio/mfeshell/internal/core"
	"golang.org/x/net/html"
)

type Element struct {
	node *html.Node
}

func (e *Element) TagName() string {
	return e.node.Data
}

func (e *Element) Attr(key string) string {
	return attr(e.node, key)
}

type Mount struct {
	doc  *Document
	node *html.Node
}

func (m *Mount) Clear() {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()
	m.clear()
}

func (m *Mount) SetHTML(markup string) {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()

	m.clear()
	nodes, err := html.ParseFragment(strings.NewReader(markup), m.node)
	if err != nil {
		m.node.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return
	}
	for _, n := range nodes {
		m.node.AppendChild(n)
	}
}

func (m *Mount) Append(el core.Element) {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()

	var node *html.Node
	if e, ok := el.(*Element); ok {
		node = e.node
	} else {
		node = &html.Node{Type: html.ElementNode, Data: el.TagName()}
	}
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
	m.node.AppendChild(node)
}

// HTML renders the mount point's children.
func (m *Mount) HTML() string {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()

	var b strings.Builder
	for c := m.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

// Children returns the tag names of the element children, in order.
func (m *Mount) Children() []string {
	m.doc.mu.Lock()
	defer m.doc.mu.Unlock()

	var tags []string
	for c := m.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tags = append(tags, c.Data)
		}
	}
	return tags
}

func (m *Mount) clear() {
	for c := m.node.FirstChild; c != nil; {
		next := c.NextSibling
		m.node.RemoveChild(c)
		c = next
	}
}
