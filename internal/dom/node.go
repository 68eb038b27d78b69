// Package dom builds the SVG/HTML fragments that fill page containers.
package dom

import (
	"html"
	"io"
	"strconv"
	"strings"
)

type attr struct {
	name, value string
}

// Node is one element (or a text run when Tag is empty). Nodes are built once
// per render and discarded with their container.
type Node struct {
	Tag      string
	attrs    []attr
	children []*Node
	text     string
	raw      bool
}

// El creates an element node.
func El(tag string) *Node { return &Node{Tag: tag} }

// Text creates an escaped text node.
func Text(s string) *Node { return &Node{text: s} }

// Raw creates a node whose content is written verbatim.
func Raw(s string) *Node { return &Node{text: s, raw: true} }

// Attr sets (or replaces) an attribute. Floats are written with the shortest
// exact representation rounded to two decimals.
func (n *Node) Attr(name string, value any) *Node {
	v := format(value)
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = v
			return n
		}
	}
	n.attrs = append(n.attrs, attr{name, v})
	return n
}

// Class appends to the class attribute.
func (n *Node) Class(classes ...string) *Node {
	joined := strings.Join(classes, " ")
	if cur, ok := n.Get("class"); ok && cur != "" {
		joined = cur + " " + joined
	}
	return n.Attr("class", joined)
}

// Get returns an attribute value.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute contains c.
func (n *Node) HasClass(c string) bool {
	v, _ := n.Get("class")
	for _, f := range strings.Fields(v) {
		if f == c {
			return true
		}
	}
	return false
}

// Append adds children, skipping nil.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, c)
		}
	}
	return n
}

// SetText replaces the children with one text node.
func (n *Node) SetText(s string) *Node {
	n.children = []*Node{Text(s)}
	return n
}

// Children returns the direct children.
func (n *Node) Children() []*Node { return n.children }

// Clear removes every child.
func (n *Node) Clear() { n.children = nil }

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Tag == "" {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FindAll returns every descendant (including n) matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if pred(c) {
			out = append(out, c)
		}
	})
	return out
}

// ByClass returns every element carrying class c.
func (n *Node) ByClass(c string) []*Node {
	return n.FindAll(func(x *Node) bool { return x.Tag != "" && x.HasClass(c) })
}

// ByTag returns every element with the given tag.
func (n *Node) ByTag(tag string) []*Node {
	return n.FindAll(func(x *Node) bool { return x.Tag == tag })
}

var voidTags = map[string]bool{"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true}

// Render writes the markup.
func (n *Node) Render(w io.Writer) error {
	var b strings.Builder
	n.write(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the markup.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.Tag == "" {
		if n.raw {
			b.WriteString(n.text)
		} else {
			b.WriteString(html.EscapeString(n.text))
		}
		return
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.value))
		b.WriteByte('"')
	}
	if len(n.children) == 0 {
		if voidTags[n.Tag] {
			b.WriteString(">")
			return
		}
		if isSVGTag(n.Tag) {
			b.WriteString("/>")
			return
		}
	}
	b.WriteByte('>')
	for _, c := range n.children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

var svgTags = map[string]bool{
	"circle": true, "line": true, "path": true, "rect": true, "polygon": true,
	"polyline": true, "g": true, "text": true, "tspan": true, "svg": true,
}

func isSVGTag(tag string) bool { return svgTags[tag] }

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case interface{ String() string }:
		return x.String()
	}
	return ""
}

// Num formats a coordinate with at most two decimals.
func Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
