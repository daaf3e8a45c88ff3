package blot

import (
	"fmt"

	"go.uber.org/zap"

	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// ShadowBlot carries the identity and sibling links shared by every node
// and implements the default, atomic behavior of each operation. Concrete
// kinds embed it and set self to their outermost value so that calls made
// here dispatch to their overrides.
type ShadowBlot struct {
	self   Blot
	def    *Definition
	reg    *Registry
	node   *html.Node
	parent Parent
	scroll Parent
	prev   Blot
	next   Blot
}

func (s *ShadowBlot) init(self Blot, def *Definition, reg *Registry, node *html.Node) {
	s.self = self
	s.def = def
	s.reg = reg
	s.node = node
	reg.bind(node, self)
}

func (s *ShadowBlot) Definition() *Definition { return s.def }
func (s *ShadowBlot) Name() string            { return s.def.Name }
func (s *ShadowBlot) Node() *html.Node        { return s.node }
func (s *ShadowBlot) Registry() *Registry     { return s.reg }
func (s *ShadowBlot) Parent() Parent          { return s.parent }
func (s *ShadowBlot) Scroll() Parent          { return s.scroll }
func (s *ShadowBlot) Prev() Blot              { return s.prev }
func (s *ShadowBlot) Next() Blot              { return s.next }
func (s *ShadowBlot) SetPrev(b Blot)          { s.prev = b }
func (s *ShadowBlot) SetNext(b Blot)          { s.next = b }
func (s *ShadowBlot) setParent(p Parent)      { s.parent = p }

func (s *ShadowBlot) debug(op string, fields ...zap.Field) {
	if ce := s.reg.log.Check(zap.DebugLevel, op); ce != nil {
		ce.Write(append(fields, zap.String("blot", s.def.Name))...)
	}
}

// Attach inherits the scroll root from the parent.
func (s *ShadowBlot) Attach() {
	s.debug("attach")
	if s.parent != nil {
		s.scroll = s.parent.Scroll()
	}
}

// Detach unlinks from the parent and drops the side-table binding. It
// does not touch the surface.
func (s *ShadowBlot) Detach() {
	s.debug("detach")
	if s.parent != nil {
		s.parent.RemoveChild(s.self)
	}
	s.reg.unbind(s.node, s.self)
}

// Clone returns a detached node of the same type over a shallow copy of
// the element.
func (s *ShadowBlot) Clone() (Blot, error) {
	s.debug("clone")
	return s.reg.instantiate(s.def, s.node.CloneNode(false))
}

// Remove takes the element off the surface, then detaches.
func (s *ShadowBlot) Remove() {
	s.debug("remove")
	if s.node.Parent != nil {
		s.node.Parent.RemoveChild(s.node)
	}
	s.self.Detach()
}

// Replace puts this node where target is and removes target.
func (s *ShadowBlot) Replace(target Blot) error {
	s.debug("replace", zap.String("target", target.Name()))
	parent := target.Parent()
	if parent == nil {
		return nil
	}
	if err := parent.InsertBefore(s.self, target.Next()); err != nil {
		return err
	}
	target.Remove()
	return nil
}

func (s *ShadowBlot) ReplaceWith(name string, value any) (Blot, error) {
	replacement, err := s.reg.Create(name, value)
	if err != nil {
		return nil, err
	}
	b, err := s.self.ReplaceWithBlot(replacement)
	if err != nil {
		replacement.Detach()
		return nil, err
	}
	return b, nil
}

func (s *ShadowBlot) ReplaceWithBlot(replacement Blot) (Blot, error) {
	s.debug("replace with", zap.String("replacement", replacement.Name()))
	if err := replacement.Replace(s.self); err != nil {
		return nil, err
	}
	return replacement, nil
}

// Wrap creates a wrapper of the named type around this node.
func (s *ShadowBlot) Wrap(name string, value any) (Parent, error) {
	s.debug("wrap", zap.String("wrapper", name))
	created, err := s.reg.Create(name, value)
	if err != nil {
		return nil, err
	}
	wrapper, ok := created.(Parent)
	if !ok {
		created.Detach()
		return nil, fmt.Errorf("%w: %s cannot wrap %s", ErrCompatibility, name, s.def.Name)
	}
	p, err := s.self.WrapWith(wrapper)
	if err != nil {
		wrapper.Detach()
		return nil, err
	}
	return p, nil
}

// WrapWith moves this node into wrapper, which takes its position. Both
// insertions are checked before anything changes.
func (s *ShadowBlot) WrapWith(wrapper Parent) (Parent, error) {
	if !wrapper.Accepts(s.self) {
		return nil, incompatible(s.self, wrapper)
	}
	if s.parent != nil {
		if !s.parent.Accepts(wrapper) {
			return nil, incompatible(wrapper, s.parent)
		}
		if err := s.parent.InsertBefore(wrapper, s.next); err != nil {
			return nil, err
		}
	}
	if err := wrapper.AppendChild(s.self); err != nil {
		return nil, err
	}
	return wrapper, nil
}

// InsertInto links this node into parent before ref, moving the element
// on the surface only when it is not already in place.
func (s *ShadowBlot) InsertInto(parent Parent, ref Blot) {
	s.debug("insert into", zap.String("parent", parent.Name()))
	if ref == s.self {
		ref = s.next
	}
	if s.parent != nil {
		s.parent.RemoveChild(s.self)
	}
	parent.Children().InsertBefore(s.self, ref)
	var refNode *html.Node
	if ref != nil {
		refNode = ref.Node()
	}
	if s.node.Parent != parent.Node() || s.node.NextSibling() != refNode {
		parent.Node().InsertBefore(s.node, refNode)
	}
	s.parent = parent
	s.self.Attach()
}

// Isolate returns the node covering exactly [index, index+length).
func (s *ShadowBlot) Isolate(index, length int) (Blot, error) {
	s.debug("isolate", zap.Int("index", index), zap.Int("length", length))
	target, err := s.self.Split(index, false)
	if err != nil || target == nil {
		return nil, err
	}
	if _, err := target.Split(length, false); err != nil {
		return nil, err
	}
	return target, nil
}

// Split is atomic by default: offset zero is this node, anything else is
// the next sibling.
func (s *ShadowBlot) Split(index int, force bool) (Blot, error) {
	s.debug("split", zap.Int("index", index))
	if index == 0 {
		return s.self, nil
	}
	return s.next, nil
}

func (s *ShadowBlot) DeleteAt(index, length int) error {
	s.debug("delete at", zap.Int("index", index), zap.Int("length", length))
	b, err := s.self.Isolate(index, length)
	if err != nil || b == nil {
		return err
	}
	b.Remove()
	return nil
}

// FormatAt wraps the covered range in the named format, or, for an
// attribute-level format, in a plain wrapper of this node's scope that
// carries the attribute. Unknown formats and incompatible wraps are
// ignored.
func (s *ShadowBlot) FormatAt(index, length int, name string, value any) error {
	s.debug("format at", zap.Int("index", index), zap.Int("length", length), zap.String("format", name))
	b, err := s.self.Isolate(index, length)
	if err != nil || b == nil {
		return err
	}
	if def := s.reg.Query(name, scope.Blot); def != nil && truthy(value) {
		_, err := b.Wrap(name, value)
		return ignoreIncompatible(err)
	}
	if s.reg.Attributor(name, scope.Attribute) == nil {
		return nil
	}
	created, err := s.reg.CreateScope(s.def.Scope)
	if err != nil {
		return err
	}
	wrapper, ok := created.(interface {
		Parent
		Formattable
	})
	if !ok {
		created.Detach()
		return nil
	}
	if _, err := b.WrapWith(wrapper); err != nil {
		wrapper.Detach()
		return ignoreIncompatible(err)
	}
	return wrapper.Format(name, value)
}

// InsertAt inserts text, or a node of type value when def is given, at
// the split point index.
func (s *ShadowBlot) InsertAt(index int, value string, def any) error {
	s.debug("insert at", zap.Int("index", index), zap.String("value", value))
	b, err := s.reg.createContent(value, def)
	if err != nil {
		return err
	}
	if s.parent == nil {
		b.Detach()
		return orphan("insert at", s.self)
	}
	ref, err := s.self.Split(index, false)
	if err != nil {
		return err
	}
	return s.parent.InsertBefore(b, ref)
}

func (s *ShadowBlot) Length() int { return 1 }

func (s *ShadowBlot) Offset(root Blot) int {
	if s.parent == nil || s.self == root {
		return 0
	}
	if root == nil {
		root = s.parent
	}
	return s.parent.Children().Offset(s.self) + s.parent.Offset(root)
}

// Optimize drops the reconciliation bookkeeping held for this node.
func (s *ShadowBlot) Optimize(ctx Context) error {
	s.debug("optimize")
	s.reg.clearMutations(s.node)
	return nil
}

func (s *ShadowBlot) Update(records []*html.MutationRecord, ctx Context) error {
	s.debug("update", zap.Int("records", len(records)))
	return nil
}
