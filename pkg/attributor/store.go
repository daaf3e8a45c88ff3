package attributor

import (
	"sort"

	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// Lookup is the part of the type registry a Store needs.
type Lookup interface {
	// Attributor resolves a handler by format name or surface key.
	Attributor(name string, s scope.Scope) Attributor
	// MatchNode reports whether node resolves to a type within s.
	MatchNode(node *html.Node, s scope.Scope) bool
}

// Formattable receives copied attribute values.
type Formattable interface {
	Format(name string, value any) error
}

// Store tracks the attribute-level formats present on one element.
type Store struct {
	node       *html.Node
	lookup     Lookup
	attributes map[string]Attributor
}

// NewStore builds a store from the live state of node.
func NewStore(node *html.Node, lookup Lookup) *Store {
	s := &Store{node: node, lookup: lookup}
	s.Build()
	return s
}

// CanAdd reports whether a may be applied to the store's element: the
// element must resolve to a blot type on the handler's level.
func (s *Store) CanAdd(a Attributor) bool {
	return s.lookup.MatchNode(s.node, scope.Blot&(a.Scope()|scope.Type))
}

// Attribute applies value for a, or removes a when value is empty.
func (s *Store) Attribute(a Attributor, value string) {
	if value == "" {
		a.Remove(s.node)
		delete(s.attributes, a.Name())
		return
	}
	if !s.CanAdd(a) || !a.Add(s.node, value) {
		return
	}
	if a.Value(s.node) != "" {
		s.attributes[a.Name()] = a
	} else {
		delete(s.attributes, a.Name())
	}
}

// Build re-reads the element, collecting every plain attribute, class
// prefix and style property that resolves to a registered handler.
func (s *Store) Build() {
	s.attributes = make(map[string]Attributor)
	var keys []string
	keys = append(keys, AttributeKeys(s.node)...)
	keys = append(keys, ClassKeys(s.node)...)
	keys = append(keys, StyleKeys(s.node)...)
	for _, key := range keys {
		a := s.lookup.Attributor(key, scope.Attribute)
		if a == nil || a.Value(s.node) == "" {
			continue
		}
		s.attributes[a.Name()] = a
	}
}

// Names returns the tracked format names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.attributes))
	for name := range s.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy formats target with every tracked value.
func (s *Store) Copy(target Formattable) error {
	for _, name := range s.Names() {
		if err := target.Format(name, s.attributes[name].Value(s.node)); err != nil {
			return err
		}
	}
	return nil
}

// Move copies every value to target and strips them from this element.
func (s *Store) Move(target Formattable) error {
	if err := s.Copy(target); err != nil {
		return err
	}
	for _, name := range s.Names() {
		s.attributes[name].Remove(s.node)
	}
	s.attributes = make(map[string]Attributor)
	return nil
}

// Values snapshots the tracked formats.
func (s *Store) Values() map[string]string {
	values := make(map[string]string, len(s.attributes))
	for name, a := range s.attributes {
		values[name] = a.Value(s.node)
	}
	return values
}
