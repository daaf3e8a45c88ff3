package blot

import (
	"go.uber.org/zap"

	"parchment/pkg/attributor"
	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// FormatBlot is a container whose element carries formats: its own type
// and the attribute-level values held in its Store.
type FormatBlot struct {
	ContainerBlot
	attributes *attributor.Store
}

func (f *FormatBlot) buildAttributes() {
	f.attributes = attributor.NewStore(f.node, f.reg)
}

// Attributes exposes the attribute store.
func (f *FormatBlot) Attributes() *attributor.Store { return f.attributes }

func (f *FormatBlot) formattable() Formattable { return f.self.(Formattable) }

// Format applies an attribute handler through the store, or replaces this
// node with the named type unless that format is already in effect.
func (f *FormatBlot) Format(name string, value any) error {
	f.debug("format", zap.String("format", name), zap.Any("value", value))
	def, a := f.reg.Lookup(name, scope.Any)
	if a != nil {
		f.attributes.Attribute(a, attributeValue(value))
		return nil
	}
	if def == nil || !truthy(value) {
		return nil
	}
	if name == f.def.Name && f.def.holds(f.node, f.formattable().Formats()[name], value) {
		return nil
	}
	_, err := f.self.ReplaceWith(name, value)
	return ignoreIncompatible(err)
}

// Formats merges the attribute values with this node's own format.
func (f *FormatBlot) Formats() map[string]any {
	formats := make(map[string]any)
	for name, v := range f.attributes.Values() {
		formats[name] = v
	}
	if v := f.def.formatValue(f.node, f.reg.baseTag(f.def.Kind.String())); v != nil {
		formats[f.def.Name] = v
	}
	return formats
}

// ReplaceWithBlot carries the attribute values over to the replacement.
func (f *FormatBlot) ReplaceWithBlot(replacement Blot) (Blot, error) {
	b, err := f.ContainerBlot.ReplaceWithBlot(replacement)
	if err != nil {
		return nil, err
	}
	if target, ok := b.(Formattable); ok {
		if err := f.attributes.Copy(target); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WrapWith hands the attributes to a wrapper of the same scope, which
// becomes their outermost owner.
func (f *FormatBlot) WrapWith(wrapper Parent) (Parent, error) {
	p, err := f.ContainerBlot.WrapWith(wrapper)
	if err != nil {
		return nil, err
	}
	if target, ok := p.(Formattable); ok && p.Definition().Is("format") && p.Definition().Scope == f.def.Scope {
		if err := f.attributes.Move(target); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Update rebuilds the store when the element's attributes changed.
func (f *FormatBlot) Update(records []*html.MutationRecord, ctx Context) error {
	if err := f.ContainerBlot.Update(records, ctx); err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Type == html.Attributes && rec.Target == f.node {
			f.attributes.Build()
			break
		}
	}
	return nil
}

// attributeValue renders a value for an attribute handler; true becomes
// "true" and any falsy value clears the attribute.
func attributeValue(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return "true"
		}
		return ""
	}
	return stringValue(v)
}
