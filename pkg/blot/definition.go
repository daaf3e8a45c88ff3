package blot

import (
	"fmt"
	"strconv"
	"strings"

	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// Kind selects the node role a Definition instantiates.
type Kind int

const (
	KindText Kind = iota
	KindLeaf
	KindEmbed
	KindContainer
	KindFormat
	KindInline
	KindBlock
	KindScroll
)

var kindNames = map[Kind]string{
	KindText:      "text",
	KindLeaf:      "leaf",
	KindEmbed:     "embed",
	KindContainer: "container",
	KindFormat:    "format",
	KindInline:    "inline",
	KindBlock:     "block",
	KindScroll:    "scroll",
}

// roles lists the abstract type names each kind is an instance of.
var roles = map[Kind][]string{
	KindText:      {"text", "leaf"},
	KindLeaf:      {"leaf"},
	KindEmbed:     {"embed", "leaf"},
	KindContainer: {"container"},
	KindFormat:    {"format", "container"},
	KindInline:    {"inline", "format", "container"},
	KindBlock:     {"block", "format", "container"},
	KindScroll:    {"scroll", "container"},
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsParent reports whether instances of k own children.
func (k Kind) IsParent() bool {
	return k >= KindContainer
}

// Definition describes one registered node type.
type Definition struct {
	Name      string
	Kind      Kind
	Scope     scope.Scope
	TagNames  []string
	ClassName string
	// Extends names a registered type this one is a kind of, for
	// allowed-children checks and Is.
	Extends         string
	AllowedChildren []string
	DefaultChild    string
	// ValueAttribute stores a leaf's value in this element attribute.
	ValueAttribute string

	// Value extracts a leaf's value from its element.
	Value func(node *html.Node) any
	// Formats extracts the element-level format value.
	Formats func(node *html.Node) any
	// Init runs after a fresh element is fabricated for value.
	Init func(node *html.Node, value any)

	base *Definition
}

func (d *Definition) String() string {
	return d.Name
}

// Is reports whether d is, or extends, the type called name. The role
// names of d's kind ("leaf", "container", "format" ...) always match.
func (d *Definition) Is(name string) bool {
	for def := d; def != nil; def = def.base {
		if def.Name == name {
			return true
		}
	}
	for _, role := range roles[d.Kind] {
		if role == name {
			return true
		}
	}
	return false
}

func (d *Definition) defaultScope() scope.Scope {
	switch d.Kind {
	case KindBlock, KindContainer, KindScroll:
		return scope.BlockBlot
	default:
		return scope.InlineBlot
	}
}

// accepts checks child against the allowed-children list. An empty list
// accepts anything.
func (d *Definition) accepts(child *Definition) bool {
	if len(d.AllowedChildren) == 0 {
		return true
	}
	for _, name := range d.AllowedChildren {
		if child.Is(name) {
			return true
		}
	}
	return false
}

// create fabricates a fresh element for value.
func (d *Definition) create(doc *html.Document, value any) (*html.Node, error) {
	if d.Kind == KindText {
		return doc.CreateTextNode(stringValue(value)), nil
	}
	if len(d.TagNames) == 0 {
		return nil, fmt.Errorf("%w: %s definition missing tag name", ErrDefinition, d.Name)
	}
	tag := d.TagNames[0]
	if len(d.TagNames) > 1 {
		tag = d.pickTag(value)
	}
	node := doc.CreateElement(tag)
	if d.ClassName != "" {
		node.AddClass(d.ClassName)
	}
	if d.ValueAttribute != "" {
		if s := stringValue(value); s != "" {
			node.SetAttribute(d.ValueAttribute, s)
		}
	}
	if d.Init != nil {
		d.Init(node, value)
	}
	return node, nil
}

// pickTag selects by 1-based position, then by exact tag name, else the
// first tag.
func (d *Definition) pickTag(value any) string {
	index := 0
	switch v := value.(type) {
	case int:
		index = v
	case float64:
		index = int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			index = n
		} else {
			lower := strings.ToLower(v)
			for _, tag := range d.TagNames {
				if tag == lower {
					return tag
				}
			}
		}
	}
	if index >= 1 && index <= len(d.TagNames) {
		return d.TagNames[index-1]
	}
	return d.TagNames[0]
}

// formatValue is the element-level format contribution of node, or nil.
// baseTag is the tag of the plain inline or block type, which carries no
// format of its own unless a class name tells the types apart.
func (d *Definition) formatValue(node *html.Node, baseTag string) any {
	if d.Formats != nil {
		return d.Formats(node)
	}
	if node.Type != html.ElementNode || len(d.TagNames) == 0 {
		return nil
	}
	if (d.Kind == KindInline || d.Kind == KindBlock) && d.ClassName == "" && node.TagName == baseTag {
		return nil
	}
	if len(d.TagNames) == 1 {
		return true
	}
	return node.TagName
}

// holds reports whether node, whose current format value is current,
// already has the element that value would fabricate.
func (d *Definition) holds(node *html.Node, current, value any) bool {
	if d.Formats == nil && len(d.TagNames) > 1 && node.Type == html.ElementNode {
		return current != nil && d.pickTag(value) == node.TagName
	}
	return sameValue(current, value)
}

// leafValue extracts the value a leaf reports for node.
func (d *Definition) leafValue(node *html.Node) any {
	if d.Value != nil {
		if v := d.Value(node); v != nil {
			return v
		}
	}
	if d.ValueAttribute != "" {
		if v, ok := node.GetAttribute(d.ValueAttribute); ok {
			return v
		}
	}
	return true
}
