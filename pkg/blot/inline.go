package blot

import (
	"parchment/pkg/scope"
)

// Inline is an inline-level format. The plain inline carries no format
// of its own and only holds attributes.
type Inline struct {
	FormatBlot
}

// Format with this node's own name and a falsy value removes the format:
// each child is wrapped in a plain inline carrying the attributes, then
// this node is unwrapped.
func (in *Inline) Format(name string, value any) error {
	if name != in.def.Name || truthy(value) {
		return in.FormatBlot.Format(name, value)
	}
	var err error
	in.children.ForEach(func(child Blot) {
		if err != nil {
			return
		}
		target, ok := child.(Formattable)
		if !ok || !child.Definition().Is("format") {
			var wrapper Parent
			if wrapper, err = child.Wrap("inline", true); err != nil {
				return
			}
			target, ok = wrapper.(Formattable)
			if !ok {
				return
			}
		}
		err = in.attributes.Copy(target)
	})
	if err != nil {
		return err
	}
	return in.self.(Parent).Unwrap()
}

// FormatAt isolates the range when the format is already present here or
// is attribute-level; otherwise the children handle it.
func (in *Inline) FormatAt(index, length int, name string, value any) error {
	if _, present := in.Formats()[name]; present || in.reg.Attributor(name, scope.Attribute) != nil {
		b, err := in.self.Isolate(index, length)
		if err != nil || b == nil {
			return err
		}
		if f, ok := b.(Formattable); ok {
			return f.Format(name, value)
		}
		return nil
	}
	return in.FormatBlot.FormatAt(index, length, name, value)
}

// Optimize unwraps an inline left without formats and absorbs a directly
// following inline with identical formats.
func (in *Inline) Optimize(ctx Context) error {
	if err := in.FormatBlot.Optimize(ctx); err != nil {
		return err
	}
	if in.parent == nil || !in.reg.bound(in.node) {
		return nil
	}
	formats := in.Formats()
	if len(formats) == 0 {
		return in.Unwrap()
	}
	next, ok := in.next.(*Inline)
	if !ok || next.Prev() != in.self || !sameFormats(formats, next.Formats()) {
		return nil
	}
	if err := next.MoveChildren(in, nil); err != nil {
		return err
	}
	next.Remove()
	return nil
}
