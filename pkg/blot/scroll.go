package blot

import (
	"go.uber.org/zap"

	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// maxOptimizeIterations bounds the optimize passes of one reconciliation.
const maxOptimizeIterations = 100

// Scroll is the root of a tree. It observes its element's subtree and
// reconciles external surface edits into the tree.
type Scroll struct {
	ContainerBlot
	observer *html.Observer
}

// NewScroll builds the tree rooted at node and starts observing it. Records
// produced while the tree is built are discarded.
func NewScroll(reg *Registry, node *html.Node) (*Scroll, error) {
	def, _ := reg.names["scroll"].(*Definition)
	b, err := reg.instantiate(def, node)
	if err != nil {
		return nil, err
	}
	s := b.(*Scroll)
	s.Attach()
	s.observer.TakeRecords()
	reg.log.Debug("scroll ready", zap.Int("length", s.Length()), zap.Int("children", s.children.Len()))
	return s, nil
}

func (s *Scroll) init(self Blot, def *Definition, reg *Registry, node *html.Node) {
	s.ContainerBlot.init(self, def, reg, node)
	s.scroll = s
	s.observer = reg.doc.Observe(node)
}

// Pending reports how many surface records await reconciliation.
func (s *Scroll) Pending() int { return s.observer.Pending() }

func (s *Scroll) Detach() {
	s.ContainerBlot.Detach()
	s.observer.Disconnect()
}

// DeleteAt reconciles pending edits first. Deleting everything removes
// every child.
func (s *Scroll) DeleteAt(index, length int) error {
	if err := s.Update(nil, nil); err != nil {
		return err
	}
	if index == 0 && length == s.Length() {
		s.children.ForEach(func(child Blot) { child.Remove() })
	} else if err := s.ContainerBlot.DeleteAt(index, length); err != nil {
		return err
	}
	return s.Optimize(nil)
}

func (s *Scroll) FormatAt(index, length int, name string, value any) error {
	if err := s.Update(nil, nil); err != nil {
		return err
	}
	if err := s.ContainerBlot.FormatAt(index, length, name, value); err != nil {
		return err
	}
	return s.Optimize(nil)
}

// InsertAt at or past the end puts inline content at the end of the last
// block, creating the default block when the root is empty. Block types
// are appended as new children.
func (s *Scroll) InsertAt(index int, value string, def any) error {
	if err := s.Update(nil, nil); err != nil {
		return err
	}
	var err error
	if index >= s.Length() && (def == nil || s.reg.Query(value, scope.Block) == nil) {
		err = s.insertAtEnd(value, def)
	} else {
		err = s.ContainerBlot.InsertAt(index, value, def)
	}
	if err != nil {
		return err
	}
	return s.Optimize(nil)
}

func (s *Scroll) insertAtEnd(value string, def any) error {
	last, ok := s.children.Tail().(Parent)
	if !ok {
		child, err := s.reg.Create(s.def.DefaultChild, nil)
		if err != nil {
			return err
		}
		if err := s.AppendChild(child); err != nil {
			child.Detach()
			return err
		}
		if last, ok = child.(Parent); !ok {
			return incompatible(child, s)
		}
	}
	return last.InsertAt(last.Length(), value, def)
}

// Update reconciles records, or the observer's pending records when nil.
// Each record is routed to the blot owning its target; every owner
// updates once with its own records, then the tree is optimized.
func (s *Scroll) Update(records []*html.MutationRecord, ctx Context) error {
	if ctx == nil {
		ctx = Context{}
	}
	if records == nil {
		records = s.observer.TakeRecords()
	}
	var owners []Blot
	for _, rec := range records {
		b := s.reg.Find(rec.Target, true)
		if b == nil {
			continue
		}
		if s.reg.record(b.Node(), rec) {
			owners = append(owners, b)
		}
	}
	for _, b := range owners {
		if b == Blot(s) || !s.reg.bound(b.Node()) {
			continue
		}
		if err := b.Update(s.reg.mutations(b.Node()), ctx); err != nil {
			return err
		}
	}
	if s.reg.marked(s.node) {
		if err := s.ContainerBlot.Update(s.reg.mutations(s.node), ctx); err != nil {
			return err
		}
	}
	s.reg.log.Debug("update", zap.Int("records", len(records)), zap.Int("owners", len(owners)))
	return s.OptimizeRecords(records, ctx)
}

func (s *Scroll) Optimize(ctx Context) error {
	return s.OptimizeRecords(nil, ctx)
}

// OptimizeRecords normalizes every node touched by records, children
// before parents, and repeats with the records that pass produced until
// the surface is quiet.
func (s *Scroll) OptimizeRecords(records []*html.MutationRecord, ctx Context) error {
	if ctx == nil {
		ctx = Context{}
	}
	if err := s.fill(ctx); err != nil {
		return err
	}
	remaining := append(append([]*html.MutationRecord(nil), records...), s.observer.TakeRecords()...)
	for i := 0; len(remaining) > 0; i++ {
		if i >= maxOptimizeIterations {
			s.reg.log.Error("optimize did not settle", zap.Int("iterations", i))
			return ErrOptimizeLimit
		}
		for _, rec := range remaining {
			s.markRecord(rec)
		}
		for _, child := range s.children.Slice() {
			if err := s.optimizeMarked(child, ctx); err != nil {
				return err
			}
		}
		remaining = s.observer.TakeRecords()
	}
	return nil
}

// fill gives an empty root its default child when that child could stay.
// The root itself is never removed.
func (s *Scroll) fill(ctx Context) error {
	if s.children.Len() == 0 && !s.fillable() {
		return s.ShadowBlot.Optimize(ctx)
	}
	return s.ContainerBlot.Optimize(ctx)
}

func (s *Scroll) markRecord(rec *html.MutationRecord) {
	b := s.reg.Find(rec.Target, true)
	if b == nil {
		return
	}
	if b.Node() == rec.Target {
		switch rec.Type {
		case html.ChildList:
			s.mark(s.reg.Find(rec.PreviousSibling, false), true)
			for _, n := range rec.AddedNodes {
				child := s.reg.Find(n, false)
				s.mark(child, false)
				if p, ok := child.(Parent); ok {
					p.Children().ForEach(func(grandchild Blot) { s.mark(grandchild, false) })
				}
			}
		case html.Attributes:
			s.mark(b.Prev(), true)
		}
	}
	s.mark(b, true)
}

func (s *Scroll) mark(b Blot, parents bool) {
	for b != nil && b != Blot(s) && b.Node().Parent != nil {
		s.reg.mark(b.Node())
		if !parents {
			return
		}
		p := b.Parent()
		if p == nil {
			return
		}
		b = p
	}
}

func (s *Scroll) optimizeMarked(b Blot, ctx Context) error {
	if !s.reg.marked(b.Node()) {
		return nil
	}
	if p, ok := b.(Parent); ok {
		for _, child := range p.Children().Slice() {
			if err := s.optimizeMarked(child, ctx); err != nil {
				return err
			}
		}
	}
	return b.Optimize(ctx)
}
