package blot

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"parchment/pkg/collection"
	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// ContainerBlot owns an ordered list of children and implements the
// recursive tree algorithms.
type ContainerBlot struct {
	ShadowBlot
	children *collection.LinkedList[Blot]
}

func (c *ContainerBlot) init(self Blot, def *Definition, reg *Registry, node *html.Node) {
	c.ShadowBlot.init(self, def, reg, node)
	c.children = collection.New[Blot]()
}

func (c *ContainerBlot) me() Parent { return c.self.(Parent) }

func (c *ContainerBlot) Children() *collection.LinkedList[Blot] { return c.children }

func (c *ContainerBlot) Attach() {
	c.ShadowBlot.Attach()
	c.children.ForEach(func(child Blot) { child.Attach() })
}

// Build models the element's existing surface children. They are visited
// last to first and each is inserted before the current head, so nodes
// already in order stay where they are on the surface. Children no type
// accepts are left unmodeled.
func (c *ContainerBlot) Build() error {
	nodes := append([]*html.Node(nil), c.node.Children...)
	c.debug("build", zap.Int("nodes", len(nodes)))
	for i := len(nodes) - 1; i >= 0; i-- {
		child, err := c.reg.makeBlot(nodes[i])
		if err == nil {
			err = c.me().InsertBefore(child, c.children.Head())
		}
		if err != nil {
			if skippable(err) {
				c.debug("build skipped child", zap.Stringer("node", nodes[i]), zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

func (c *ContainerBlot) Accepts(child Blot) bool {
	return c.def.accepts(child.Definition())
}

func (c *ContainerBlot) AppendChild(child Blot) error {
	c.debug("append child", zap.String("child", child.Name()))
	return c.me().InsertBefore(child, nil)
}

// InsertBefore links child ahead of ref, or at the end when ref is nil.
// The child's type is checked before anything changes.
func (c *ContainerBlot) InsertBefore(child, ref Blot) error {
	c.debug("insert before", zap.String("child", child.Name()))
	if !c.me().Accepts(child) {
		return incompatible(child, c.self)
	}
	if ref != nil && ref != child && ref.Parent() != c.me() {
		return fmt.Errorf("insert %s: %s is not a child of %s", child.Name(), ref.Name(), c.def.Name)
	}
	child.InsertInto(c.me(), ref)
	return nil
}

// RemoveChild unlinks child from the list only.
func (c *ContainerBlot) RemoveChild(child Blot) {
	c.children.Remove(child)
	child.setParent(nil)
}

func (c *ContainerBlot) Detach() {
	c.children.ForEach(func(child Blot) { child.Detach() })
	c.ShadowBlot.Detach()
}

func (c *ContainerBlot) DeleteAt(index, length int) error {
	c.debug("delete at", zap.Int("index", index), zap.Int("length", length))
	if index == 0 && length == c.self.Length() {
		c.self.Remove()
		return nil
	}
	var err error
	c.children.ForEachAt(index, length, func(child Blot, offset, length int) {
		if err == nil {
			err = child.DeleteAt(offset, length)
		}
	})
	return err
}

// Descendant returns the first node covering index that satisfies
// criteria, with the offset inside it, or nil and -1.
func (c *ContainerBlot) Descendant(criteria Criteria, index int) (Blot, int) {
	child, offset := c.children.Find(index, false)
	if child == nil {
		return nil, -1
	}
	if criteria(child) {
		return child, offset
	}
	if p, ok := child.(Parent); ok {
		return p.Descendant(criteria, offset)
	}
	return nil, -1
}

// Descendants returns every node in [index, index+length) that satisfies
// criteria, in document order.
func (c *ContainerBlot) Descendants(criteria Criteria, index, length int) []Blot {
	var out []Blot
	left := length
	c.children.ForEachAt(index, length, func(child Blot, offset, length int) {
		if criteria(child) {
			out = append(out, child)
		}
		if p, ok := child.(Parent); ok {
			out = append(out, p.Descendants(criteria, offset, left)...)
		}
		left -= length
	})
	return out
}

func (c *ContainerBlot) FormatAt(index, length int, name string, value any) error {
	var err error
	c.children.ForEachAt(index, length, func(child Blot, offset, length int) {
		if err == nil {
			err = child.FormatAt(offset, length, name, value)
		}
	})
	return err
}

func (c *ContainerBlot) InsertAt(index int, value string, def any) error {
	if child, offset := c.children.Find(index, false); child != nil {
		return child.InsertAt(offset, value, def)
	}
	b, err := c.reg.createContent(value, def)
	if err != nil {
		return err
	}
	if err := c.me().AppendChild(b); err != nil {
		b.Detach()
		return err
	}
	return nil
}

func (c *ContainerBlot) Length() int {
	return collection.Reduce(c.children, 0, func(sum int, child Blot) int {
		return sum + child.Length()
	})
}

// MoveChildren reparents every child, in order, into target before ref.
func (c *ContainerBlot) MoveChildren(target Parent, ref Blot) error {
	var err error
	c.children.ForEach(func(child Blot) {
		if err == nil {
			err = target.InsertBefore(child, ref)
		}
	})
	return err
}

// Optimize fills an empty container with its default child, or removes
// it when the type declares none that could stay.
func (c *ContainerBlot) Optimize(ctx Context) error {
	if err := c.ShadowBlot.Optimize(ctx); err != nil {
		return err
	}
	if c.children.Len() > 0 {
		return nil
	}
	if c.def.DefaultChild == "" || !c.fillable() {
		c.self.Remove()
		return nil
	}
	child, err := c.reg.Create(c.def.DefaultChild, nil)
	if err != nil {
		return err
	}
	if err := c.me().AppendChild(child); err != nil {
		return err
	}
	return child.Optimize(ctx)
}

// fillable is false when the default child is itself a container with
// no default child, which would remove itself as soon as it is created.
func (c *ContainerBlot) fillable() bool {
	def := c.reg.Query(c.def.DefaultChild, scope.Blot)
	return def == nil || !def.Kind.IsParent() || def.DefaultChild != ""
}

// Path maps index to the chain of nodes covering it, from this node down
// to a leaf, with the local offset at each step.
func (c *ContainerBlot) Path(index int, inclusive bool) []Position {
	path := []Position{{Blot: c.self, Offset: index}}
	child, offset := c.children.Find(index, inclusive)
	if p, ok := child.(Parent); ok {
		return append(path, p.Path(offset, inclusive)...)
	}
	if child != nil {
		path = append(path, Position{Blot: child, Offset: offset})
	}
	return path
}

// Replace absorbs the children of a container target before taking its
// place. Nothing moves unless target's parent accepts this node.
func (c *ContainerBlot) Replace(target Blot) error {
	if parent := target.Parent(); parent != nil && !parent.Accepts(c.self) {
		return incompatible(c.self, parent)
	}
	if p, ok := target.(Parent); ok {
		if err := p.MoveChildren(c.me(), nil); err != nil {
			return err
		}
	}
	return c.ShadowBlot.Replace(target)
}

// Split moves the content from index on into a clone inserted as the
// next sibling, and returns the clone.
func (c *ContainerBlot) Split(index int, force bool) (Blot, error) {
	c.debug("split", zap.Int("index", index), zap.Bool("force", force))
	if !force {
		if index == 0 {
			return c.self, nil
		}
		if index == c.self.Length() {
			return c.next, nil
		}
	}
	if c.parent == nil {
		return nil, orphan("split", c.self)
	}
	clone, err := c.self.Clone()
	if err != nil {
		return nil, err
	}
	after := clone.(Parent)
	if err := c.parent.InsertBefore(after, c.next); err != nil {
		after.Detach()
		return nil, err
	}
	c.children.ForEachAt(index, c.self.Length(), func(child Blot, offset, length int) {
		if err != nil {
			return
		}
		var tail Blot
		if tail, err = child.Split(offset, force); err == nil && tail != nil {
			err = after.AppendChild(tail)
		}
	})
	return after, err
}

// Unwrap dissolves this node, moving its children into its place.
func (c *ContainerBlot) Unwrap() error {
	c.debug("unwrap")
	if c.parent == nil {
		return orphan("unwrap", c.self)
	}
	if err := c.me().MoveChildren(c.parent, c.next); err != nil {
		return err
	}
	c.self.Remove()
	return nil
}

// Update reconciles the children with childList records targeting this
// element. Removals are applied before additions; additions are applied
// last in document order first so each node's successor is already
// modeled. Nodes already in place are left alone.
func (c *ContainerBlot) Update(records []*html.MutationRecord, ctx Context) error {
	c.debug("update", zap.Int("records", len(records)))
	var added, removed []*html.Node
	seen := make(map[*html.Node]bool)
	for _, rec := range records {
		if rec.Target != c.node || rec.Type != html.ChildList {
			continue
		}
		removed = append(removed, rec.RemovedNodes...)
		for _, n := range rec.AddedNodes {
			if !seen[n] {
				seen[n] = true
				added = append(added, n)
			}
		}
	}
	for _, n := range removed {
		if n.Parent != nil && !n.DefersRemoval() && n.IsConnected() {
			continue
		}
		b := c.reg.Find(n, false)
		if b == nil {
			continue
		}
		if p := b.Node().Parent; p == nil || p == c.node {
			b.Detach()
		}
	}
	kept := added[:0]
	for _, n := range added {
		if n.Parent == c.node {
			kept = append(kept, n)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Precedes(kept[j]) })
	for i := len(kept) - 1; i >= 0; i-- {
		n := kept[i]
		ref := c.modeledSuccessor(n)
		b, err := c.reg.makeBlot(n)
		if err != nil {
			if skippable(err) {
				continue
			}
			return err
		}
		if b.Parent() == c.me() && b.Next() == ref {
			continue
		}
		if err := c.me().InsertBefore(b, ref); err != nil {
			if skippable(err) {
				c.debug("update skipped node", zap.Stringer("node", n), zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

// modeledSuccessor is the first following sibling of n already modeled
// as a child of this node.
func (c *ContainerBlot) modeledSuccessor(n *html.Node) Blot {
	for s := n.NextSibling(); s != nil; s = s.NextSibling() {
		if b := c.reg.Find(s, false); b != nil && b.Parent() == c.me() {
			return b
		}
	}
	return nil
}
