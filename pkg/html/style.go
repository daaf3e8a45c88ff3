package html

import (
	"strings"
	"unicode"
)

// Classes returns the tokens of the class attribute.
func (n *Node) Classes() []string {
	attr, _ := n.GetAttribute("class")
	return strings.Fields(attr)
}

// HasClass reports whether the class attribute contains cls.
func (n *Node) HasClass(cls string) bool {
	for _, c := range n.Classes() {
		if c == cls {
			return true
		}
	}
	return false
}

// SetClasses writes the class attribute, dropping it when classes is empty.
func (n *Node) SetClasses(classes []string) {
	if len(classes) == 0 {
		n.RemoveAttribute("class")
		return
	}
	n.SetAttribute("class", strings.Join(classes, " "))
}

func (n *Node) AddClass(cls string) {
	if n.HasClass(cls) {
		return
	}
	n.SetClasses(append(n.Classes(), cls))
}

func (n *Node) RemoveClass(cls string) {
	classes := n.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != cls {
			kept = append(kept, c)
		}
	}
	n.SetClasses(kept)
}

// ToggleClass flips cls and reports whether it is now present.
func (n *Node) ToggleClass(cls string) bool {
	if n.HasClass(cls) {
		n.RemoveClass(cls)
		return false
	}
	n.AddClass(cls)
	return true
}

// ReplaceClass swaps the first old token for repl in place.
func (n *Node) ReplaceClass(old, repl string) bool {
	classes := n.Classes()
	for i, c := range classes {
		if c == old {
			classes[i] = repl
			n.SetClasses(classes)
			return true
		}
	}
	return false
}

// StyleDecl is one property of an inline style attribute.
type StyleDecl struct {
	Property string
	Value    string
}

// InlineStyle parses the style attribute in declaration order.
func (n *Node) InlineStyle() []StyleDecl {
	return ParseInlineStyle(n.Attributes["style"])
}

// Style returns the value of one inline style property.
func (n *Node) Style(prop string) string {
	for _, d := range n.InlineStyle() {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// SetStyle sets an inline style property; an empty value removes it. The
// style attribute is dropped once no declarations remain.
func (n *Node) SetStyle(prop, value string) {
	decls := n.InlineStyle()
	out := decls[:0]
	found := false
	for _, d := range decls {
		if d.Property == prop {
			found = true
			if value == "" {
				continue
			}
			d.Value = value
		}
		out = append(out, d)
	}
	if !found && value != "" {
		out = append(out, StyleDecl{Property: prop, Value: value})
	}
	if len(out) == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", SerializeInlineStyle(out))
}

// ParseInlineStyle parses a CSS inline style string.
func ParseInlineStyle(s string) []StyleDecl {
	var result []StyleDecl
	for _, decl := range strings.Split(s, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		result = append(result, StyleDecl{
			Property: strings.TrimSpace(decl[:idx]),
			Value:    strings.TrimSpace(decl[idx+1:]),
		})
	}
	return result
}

// SerializeInlineStyle converts declarations back to a style attribute.
func SerializeInlineStyle(decls []StyleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// CamelToKebab converts a JS camelCase property name to CSS kebab-case.
func CamelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
