package config

import (
	"fmt"

	"parchment/pkg/attributor"
	"parchment/pkg/blot"
	"parchment/pkg/scope"
)

// Apply registers every declared type and handler with reg, in order. It
// stops at the first registration failure.
func (s *Schema) Apply(reg *blot.Registry) error {
	for _, spec := range s.Blots {
		def, err := spec.Definition()
		if err != nil {
			return err
		}
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	for _, spec := range s.Attributors {
		a, err := spec.Attributor()
		if err != nil {
			return err
		}
		if err := reg.RegisterAttributor(a); err != nil {
			return err
		}
	}
	return nil
}

// Definition converts the declaration into a registrable definition.
func (b BlotSpec) Definition() (*blot.Definition, error) {
	kind, ok := blot.ParseKind(b.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: blot %s has unknown kind %q", ErrInvalid, b.Name, b.Kind)
	}
	def := &blot.Definition{
		Name:            b.Name,
		Kind:            kind,
		TagNames:        append([]string(nil), b.Tags...),
		ClassName:       b.Class,
		Extends:         b.Extends,
		AllowedChildren: append([]string(nil), b.AllowedChildren...),
		DefaultChild:    b.DefaultChild,
		ValueAttribute:  b.ValueAttribute,
	}
	if b.Scope != "" {
		level, _ := scope.Parse(b.Scope)
		def.Scope = level & scope.Blot
	}
	return def, nil
}

// Attributor builds the declared handler.
func (a AttributorSpec) Attributor() (attributor.Attributor, error) {
	key := a.Key
	if key == "" {
		key = a.Name
	}
	opts := attributor.Options{Whitelist: a.Whitelist}
	if a.Scope != "" {
		opts.Scope, _ = scope.Parse(a.Scope)
	}
	switch a.Type {
	case "attribute":
		return attributor.NewAttribute(a.Name, key, opts), nil
	case "class":
		return attributor.NewClass(a.Name, key, opts), nil
	case "style":
		return attributor.NewStyle(a.Name, key, opts), nil
	}
	return nil, fmt.Errorf("%w: attributor %s has unknown type %q", ErrInvalid, a.Name, a.Type)
}

// Default is the schema used when no file is given: common inline and
// block formats, lists, images, alignment and color.
func Default() *Schema {
	inline := []string{"inline", "embed", "text"}
	return &Schema{
		Blots: []BlotSpec{
			{Name: "bold", Kind: "inline", Tags: []string{"strong", "b"}, AllowedChildren: inline},
			{Name: "italic", Kind: "inline", Tags: []string{"em", "i"}, AllowedChildren: inline},
			{Name: "underline", Kind: "inline", Tags: []string{"u"}, AllowedChildren: inline},
			{Name: "link", Kind: "inline", Tags: []string{"a"}, ValueAttribute: "href", AllowedChildren: inline},
			{Name: "header", Kind: "block", Tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"}, AllowedChildren: inline},
			{Name: "blockquote", Kind: "block", Tags: []string{"blockquote"}, AllowedChildren: inline},
			{Name: "list-item", Kind: "block", Tags: []string{"li"}, AllowedChildren: inline},
			{Name: "list", Kind: "container", Tags: []string{"ol", "ul"}, AllowedChildren: []string{"list-item"}, DefaultChild: "list-item"},
			{Name: "image", Kind: "embed", Tags: []string{"img"}, ValueAttribute: "src"},
			{Name: "break", Kind: "embed", Tags: []string{"br"}},
		},
		Attributors: []AttributorSpec{
			{Name: "align", Type: "class", Scope: "block", Whitelist: []string{"center", "right", "justify"}},
			{Name: "color", Type: "style", Scope: "inline"},
			{Name: "background", Type: "style", Key: "background-color", Scope: "inline"},
		},
	}
}
