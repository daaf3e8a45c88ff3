package attributor

import (
	"strings"

	"parchment/pkg/html"
)

// Class stores its value as a "key-value" token in the class attribute.
type Class struct {
	*Attribute
}

func NewClass(name, key string, opts Options) *Class {
	return &Class{Attribute: NewAttribute(name, key, opts)}
}

func (c *Class) Add(node *html.Node, value string) bool {
	if !c.Allows(value) {
		return false
	}
	c.Remove(node)
	node.AddClass(c.key + "-" + value)
	return true
}

func (c *Class) Remove(node *html.Node) {
	prefix := c.key + "-"
	classes := node.Classes()
	kept := classes[:0]
	for _, cls := range classes {
		if !strings.HasPrefix(cls, prefix) {
			kept = append(kept, cls)
		}
	}
	node.SetClasses(kept)
}

func (c *Class) Value(node *html.Node) string {
	prefix := c.key + "-"
	for _, cls := range node.Classes() {
		if strings.HasPrefix(cls, prefix) {
			value := cls[len(prefix):]
			if c.Allows(value) {
				return value
			}
			return ""
		}
	}
	return ""
}

// ClassKeys lists the prefixes of the class tokens on node: "size-large"
// yields "size".
func ClassKeys(node *html.Node) []string {
	var keys []string
	for _, cls := range node.Classes() {
		parts := strings.Split(cls, "-")
		keys = append(keys, strings.Join(parts[:len(parts)-1], "-"))
	}
	return keys
}
