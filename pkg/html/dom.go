package html

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Node is one element or text node of the rendered surface. The exported
// fields may be read freely; writes must go through the methods so that
// observers see them as mutation records.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	doc *Document
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root    *Node
	Scripts []string // JavaScript from <script> tags

	observers []*Observer
}

func NewDocument() *Document {
	doc := &Document{Scripts: make([]string, 0)}
	doc.Root = &Node{
		Type:     ElementNode,
		TagName:  "document",
		Children: make([]*Node, 0),
		doc:      doc,
	}
	return doc
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
		doc:        d,
	}
}

// CreateTextNode returns a detached text node owned by d.
func (d *Document) CreateTextNode(text string) *Node {
	return &Node{Type: TextNode, Text: text, doc: d}
}

// Document returns the document that created n, or nil for nodes built
// as bare literals.
func (n *Node) Document() *Document {
	return n.doc
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// SetAttribute sets an attribute and records the change.
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	old, had := n.Attributes[name]
	if had && old == value {
		return
	}
	n.Attributes[name] = value
	n.notify(&MutationRecord{Type: Attributes, Target: n, AttributeName: name, OldValue: old})
}

// RemoveAttribute deletes an attribute if present and records the change.
func (n *Node) RemoveAttribute(name string) {
	old, had := n.GetAttribute(name)
	if !had {
		return
	}
	delete(n.Attributes, name)
	n.notify(&MutationRecord{Type: Attributes, Target: n, AttributeName: name, OldValue: old})
}

// AttributeNames returns the attribute names in sorted order.
func (n *Node) AttributeNames() []string {
	names := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetData replaces the content of a text node.
func (n *Node) SetData(text string) {
	if n.Text == text {
		return
	}
	old := n.Text
	n.Text = text
	n.notify(&MutationRecord{Type: CharacterData, Target: n, OldValue: old})
}

// SplitText breaks a text node at offset (counted in characters). The
// original keeps the leading part; the remainder becomes a new text node
// inserted as the next sibling when n has a parent.
func (n *Node) SplitText(offset int) (*Node, error) {
	if n.Type != TextNode {
		return nil, fmt.Errorf("split text: %s is not a text node", n.TagName)
	}
	count := utf8.RuneCountInString(n.Text)
	if offset < 0 || offset > count {
		return nil, fmt.Errorf("split text: offset %d out of range [0, %d]", offset, count)
	}
	runes := []rune(n.Text)
	after := &Node{Type: TextNode, Text: string(runes[offset:]), doc: n.doc}
	if n.Parent != nil {
		n.Parent.InsertBefore(after, n.NextSibling())
	}
	n.SetData(string(runes[:offset]))
	return after, nil
}

// AddChild appends child, re-parenting it if needed.
func (n *Node) AddChild(child *Node) {
	n.InsertBefore(child, nil)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text, doc: n.doc})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	i := n.indexOf(child)
	if i < 0 {
		return nil
	}
	var prev, next *Node
	if i > 0 {
		prev = n.Children[i-1]
	}
	if i+1 < len(n.Children) {
		next = n.Children[i+1]
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	child.Parent = nil
	n.notify(&MutationRecord{
		Type:            ChildList,
		Target:          n,
		RemovedNodes:    []*Node{child},
		PreviousSibling: prev,
		NextSibling:     next,
	})
	return child
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil or not a child of n, newChild is appended.
// If newChild already has a parent, it is removed from that parent first.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	if newChild == refChild {
		return newChild
	}
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	i := -1
	if refChild != nil {
		i = n.indexOf(refChild)
	}
	if i < 0 {
		i = len(n.Children)
		n.Children = append(n.Children, newChild)
	} else {
		n.Children = append(n.Children, nil)
		copy(n.Children[i+1:], n.Children[i:])
		n.Children[i] = newChild
	}
	newChild.Parent = n
	if newChild.doc == nil {
		newChild.doc = n.doc
	}
	var prev, next *Node
	if i > 0 {
		prev = n.Children[i-1]
	}
	if i+1 < len(n.Children) {
		next = n.Children[i+1]
	}
	n.notify(&MutationRecord{
		Type:            ChildList,
		Target:          n,
		AddedNodes:      []*Node{newChild},
		PreviousSibling: prev,
		NextSibling:     next,
	})
	return newChild
}

// ReplaceChild puts newChild where oldChild was. It returns oldChild, or
// nil when oldChild is not a child of n.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	if n.indexOf(oldChild) < 0 {
		return nil
	}
	n.InsertBefore(newChild, oldChild)
	return n.RemoveChild(oldChild)
}

// RemoveChildren detaches every child of n, last first.
func (n *Node) RemoveChildren() {
	for len(n.Children) > 0 {
		n.RemoveChild(n.Children[len(n.Children)-1])
	}
}

// CloneNode returns a copy of the node. If deep is true, all descendants
// are cloned recursively. The clone has no parent.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{
		Type:    n.Type,
		TagName: n.TagName,
		Text:    n.Text,
		doc:     n.doc,
	}
	if n.Attributes != nil {
		clone.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			clone.Attributes[k] = v
		}
	}
	if deep {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			childClone := child.CloneNode(true)
			childClone.Parent = clone
			clone.Children[i] = childClone
		}
	} else {
		clone.Children = make([]*Node, 0)
	}
	return clone
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether n is reachable from its document's root.
func (n *Node) IsConnected() bool {
	return n.doc != nil && n.doc.Root.Contains(n)
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	return n.Parent.indexOf(n)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) NextSibling() *Node {
	i := n.IndexInParent()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

func (n *Node) PrevSibling() *Node {
	i := n.IndexInParent()
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Precedes reports whether n comes before other in document order. An
// ancestor precedes its descendants. Nodes in disconnected trees compare
// false both ways.
func (n *Node) Precedes(other *Node) bool {
	if n == other {
		return false
	}
	a, b := n.ancestry(), other.ancestry()
	if a[0] != b[0] {
		return false
	}
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	if i == len(a) {
		return true // n is an ancestor of other
	}
	if i == len(b) {
		return false
	}
	parent := a[i-1]
	return parent.indexOf(a[i]) < parent.indexOf(b[i])
}

// ancestry lists the path from the topmost ancestor down to n.
func (n *Node) ancestry() []*Node {
	var path []*Node
	for p := n; p != nil; p = p.Parent {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node, or sets
// the data of a text node.
func (n *Node) SetTextContent(text string) {
	if n.Type == TextNode {
		n.SetData(text)
		return
	}
	n.RemoveChildren()
	n.AppendText(text)
}

// Serialize returns the innerHTML of this node: the serialized HTML of
// all child nodes, but not the node's own tags.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of this node: the node's own tags
// plus all descendants.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func (n *Node) String() string {
	if n.Type == TextNode {
		return fmt.Sprintf("#text(%q)", n.Text)
	}
	return "<" + n.TagName + ">"
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	for _, k := range n.AttributeNames() {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(n.Attributes[k]))
		sb.WriteByte('"')
	}

	if isVoidElement(n.TagName) {
		sb.WriteString(">")
		return
	}

	sb.WriteByte('>')
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// DefersRemoval reports element kinds whose removal may be reported before
// they actually leave the tree.
func (n *Node) DefersRemoval() bool {
	return n.Type == ElementNode && n.TagName == "iframe"
}
