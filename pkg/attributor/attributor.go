// Package attributor implements attribute-level formats: values stored on
// a node's element as a plain attribute, a prefixed class token, or an
// inline style property, plus the per-node Store that tracks them.
package attributor

import (
	"strings"

	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// Attributor reads and writes one attribute-level format on an element.
// Add and Value apply the whitelist; scope compatibility of the element is
// checked by the Store, which knows the registry.
type Attributor interface {
	// Name is the format name, e.g. "align".
	Name() string
	// Key is the surface key: attribute name, class prefix or style property.
	Key() string
	Scope() scope.Scope
	Add(node *html.Node, value string) bool
	Remove(node *html.Node)
	Value(node *html.Node) string
}

type Options struct {
	Scope     scope.Scope
	Whitelist []string
}

// Attribute stores its value in a plain element attribute.
type Attribute struct {
	name      string
	key       string
	scope     scope.Scope
	whitelist []string
}

func NewAttribute(name, key string, opts Options) *Attribute {
	a := &Attribute{name: name, key: key, whitelist: opts.Whitelist}
	attributeBit := scope.Type & scope.Attribute
	if opts.Scope != 0 {
		a.scope = (opts.Scope & scope.Level) | attributeBit
	} else {
		a.scope = scope.Attribute
	}
	return a
}

func (a *Attribute) Name() string       { return a.name }
func (a *Attribute) Key() string        { return a.key }
func (a *Attribute) Scope() scope.Scope { return a.scope }

// Allows applies the whitelist. Quotes are ignored so font names such as
// "'Courier New'" match their bare spelling.
func (a *Attribute) Allows(value string) bool {
	if a.whitelist == nil {
		return true
	}
	value = strings.NewReplacer(`"`, "", `'`, "").Replace(value)
	for _, w := range a.whitelist {
		if w == value {
			return true
		}
	}
	return false
}

func (a *Attribute) Add(node *html.Node, value string) bool {
	if !a.Allows(value) {
		return false
	}
	node.SetAttribute(a.key, value)
	return true
}

func (a *Attribute) Remove(node *html.Node) {
	node.RemoveAttribute(a.key)
}

func (a *Attribute) Value(node *html.Node) string {
	value, _ := node.GetAttribute(a.key)
	if value == "" || !a.Allows(value) {
		return ""
	}
	return value
}

// AttributeKeys lists the candidate keys of plain attributes on node.
func AttributeKeys(node *html.Node) []string {
	return node.AttributeNames()
}
