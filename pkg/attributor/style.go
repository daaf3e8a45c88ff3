package attributor

import (
	"parchment/pkg/html"
)

// Style stores its value as an inline style property. The key is the CSS
// property name in kebab-case.
type Style struct {
	*Attribute
}

func NewStyle(name, key string, opts Options) *Style {
	return &Style{Attribute: NewAttribute(name, html.CamelToKebab(key), opts)}
}

func (s *Style) Add(node *html.Node, value string) bool {
	if !s.Allows(value) {
		return false
	}
	node.SetStyle(s.key, value)
	return true
}

func (s *Style) Remove(node *html.Node) {
	node.SetStyle(s.key, "")
}

func (s *Style) Value(node *html.Node) string {
	value := node.Style(s.key)
	if !s.Allows(value) {
		return ""
	}
	return value
}

// StyleKeys lists the inline style properties set on node.
func StyleKeys(node *html.Node) []string {
	decls := node.InlineStyle()
	keys := make([]string, len(decls))
	for i, d := range decls {
		keys[i] = d.Property
	}
	return keys
}
