// Package ooxml reads, edits and writes Office Open XML word-processing
// packages (.docx).
//
// Parts are kept as raw bytes until a caller asks for one as an XML tree.
// The tree keeps namespace prefixes exactly as they appear in the source
// (w:p stays w:p), so untouched markup survives a load/save cycle and
// edited elements can be addressed by their qualified names.
package ooxml

import (
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Attr is an attribute with its qualified name (prefix:local).
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a parsed XML part.
//
// For elements Name is the qualified name ("w:p"). For processing
// instructions Name is the target and Data the instruction. For text,
// comments and directives Data holds the content.
type Node struct {
	Type     NodeType
	Name     string
	Attrs    []Attr
	Data     string
	Children []*Node
	Parent   *Node
}

// NewElement creates a detached element with the given attributes,
// given as alternating name/value pairs.
func NewElement(name string, attrs ...string) *Node {
	n := &Node{Type: ElementNode, Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs = append(n.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return n
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// IsElement reports whether n is an element with the given qualified name.
func (n *Node) IsElement(name string) bool {
	return n != nil && n.Type == ElementNode && n.Name == name
}

// Root returns the document element of a document node.
func (n *Node) Root() *Node {
	if n.Type != DocumentNode {
		return n
	}
	for _, c := range n.Children {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// Child returns the first element child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.IsElement(name) {
			return c
		}
	}
	return nil
}

// Elements returns the element children with the given name. An empty
// name returns every element child.
func (n *Node) Elements(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Type != ElementNode {
			continue
		}
		if name == "" || c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below n with the given name, in
// document order.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c != n && c.IsElement(name) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	// copy so fn may detach children while walking
	children := append([]*Node(nil), n.Children...)
	for _, c := range children {
		c.Walk(fn)
	}
}

// Attr returns the value of the attribute with the given qualified name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value, or def when it is absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// SetAttr sets an attribute, replacing any existing value.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// DelAttr removes an attribute if present.
func (n *Node) DelAttr(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.detach()
	c.Parent = n
	n.Children = append(n.Children, c)
}

// InsertChild inserts c at position i among all children of n.
func (n *Node) InsertChild(i int, c *Node) {
	c.detach()
	if i < 0 {
		i = 0
	}
	if i > len(n.Children) {
		i = len(n.Children)
	}
	c.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// InsertAfter inserts c right after the existing child ref.
func (n *Node) InsertAfter(ref, c *Node) {
	n.InsertChild(n.indexOf(ref)+1, c)
}

// RemoveChild detaches c from n. It is a no-op when c is not a child of n.
func (n *Node) RemoveChild(c *Node) {
	i := n.indexOf(c)
	if i < 0 {
		return
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	c.Parent = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveElements removes every element child with the given name and
// returns how many were removed.
func (n *Node) RemoveElements(name string) int {
	removed := 0
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.IsElement(name) {
			c.Parent = nil
			removed++
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
	return removed
}

// Clone returns a deep copy of n, detached from any parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Type:  n.Type,
		Name:  n.Name,
		Data:  n.Data,
		Attrs: append([]Attr(nil), n.Attrs...),
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

func (n *Node) indexOf(c *Node) int {
	for i, child := range n.Children {
		if child == c {
			return i
		}
	}
	return -1
}

func (n *Node) detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Text returns the visible text of a paragraph, run or any container:
// w:t content, tabs as "\t" and breaks as "\n".
func (n *Node) Text() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Type != ElementNode {
			return true
		}
		switch c.Name {
		case "w:t":
			for _, t := range c.Children {
				if t.Type == TextNode {
					sb.WriteString(t.Data)
				}
			}
			return false
		case "w:tab":
			if c.Parent != nil && c.Parent.Name == "w:r" {
				sb.WriteByte('\t')
			}
		case "w:br", "w:cr":
			sb.WriteByte('\n')
		case "w:pPr", "w:rPr", "w:delText", "w:instrText":
			return false
		}
		return true
	})
	return sb.String()
}

// SetText replaces the children of a w:t element with a single text node,
// marking the element space-preserving when the text needs it.
func (n *Node) SetText(text string) {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	if text != "" {
		n.AppendChild(NewText(text))
	}
	if strings.TrimSpace(text) != text {
		n.SetAttr("xml:space", "preserve")
	}
}
