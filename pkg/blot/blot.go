// Package blot implements the document tree that mirrors a rendered
// surface. Every node ("blot") is bound to one surface node for its
// lifetime. Programmatic edits mutate the tree and the surface together;
// out-of-band surface edits come back as mutation records and are
// reconciled by Update.
//
// Node roles form a closed set: Leaf (Text, Embed), Parent (Container,
// Format, Inline, Block, Scroll). Algorithms branch on the role
// interfaces below, not on concrete types.
package blot

import (
	"parchment/pkg/collection"
	"parchment/pkg/html"
)

// Context carries per-pass state through Optimize and Update.
type Context map[string]any

// Blot is implemented by every tree node.
type Blot interface {
	Definition() *Definition
	Name() string
	Node() *html.Node
	Registry() *Registry

	Parent() Parent
	Scroll() Parent
	Prev() Blot
	Next() Blot
	SetPrev(Blot)
	SetNext(Blot)

	Attach()
	Detach()
	Clone() (Blot, error)
	Remove()
	Replace(target Blot) error
	ReplaceWith(name string, value any) (Blot, error)
	ReplaceWithBlot(replacement Blot) (Blot, error)
	Wrap(name string, value any) (Parent, error)
	WrapWith(wrapper Parent) (Parent, error)
	InsertInto(parent Parent, ref Blot)
	Isolate(index, length int) (Blot, error)
	Split(index int, force bool) (Blot, error)

	DeleteAt(index, length int) error
	FormatAt(index, length int, name string, value any) error
	// InsertAt inserts text when def is nil, or a node of type value
	// built from def otherwise.
	InsertAt(index int, value string, def any) error

	Length() int
	// Offset is the distance from root (the parent when nil) in the flat
	// offset space.
	Offset(root Blot) int
	Optimize(ctx Context) error
	Update(records []*html.MutationRecord, ctx Context) error

	setParent(Parent)
}

// Parent is a node that owns an ordered set of children.
type Parent interface {
	Blot
	Children() *collection.LinkedList[Blot]
	Accepts(child Blot) bool
	AppendChild(child Blot) error
	InsertBefore(child, ref Blot) error
	RemoveChild(child Blot)
	MoveChildren(target Parent, ref Blot) error
	Descendant(criteria Criteria, index int) (Blot, int)
	Descendants(criteria Criteria, index, length int) []Blot
	Path(index int, inclusive bool) []Position
	Unwrap() error
	Build() error
}

// Formattable nodes carry formats.
type Formattable interface {
	Blot
	Format(name string, value any) error
	Formats() map[string]any
}

// Leaf is a childless node.
type Leaf interface {
	Blot
	// Index maps a surface location to an offset inside the leaf, or -1.
	Index(node *html.Node, offset int) int
	// Position maps an offset inside the leaf to a surface location.
	Position(index int, inclusive bool) (*html.Node, int)
	Value() any
}

// Criteria selects nodes in Descendant and Descendants.
type Criteria func(Blot) bool

// Is matches nodes whose type is, or extends, name.
func Is(name string) Criteria {
	return func(b Blot) bool { return b.Definition().Is(name) }
}

// Position is one step of a Path: a node and the offset inside it.
type Position struct {
	Blot   Blot
	Offset int
}
