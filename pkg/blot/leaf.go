package blot

import "parchment/pkg/html"

// LeafBlot is an atomic node spanning one unit.
type LeafBlot struct {
	ShadowBlot
}

// Index maps a surface location inside the leaf to 0 or 1.
func (l *LeafBlot) Index(node *html.Node, offset int) int {
	if l.node.Contains(node) {
		return min(offset, 1)
	}
	return -1
}

// Position maps an offset to the element's slot in its surface parent;
// any offset past zero lands after the element.
func (l *LeafBlot) Position(index int, inclusive bool) (*html.Node, int) {
	offset := l.node.IndexInParent()
	if index > 0 {
		offset++
	}
	return l.node.Parent, offset
}

// Value reports the leaf as {name: value}.
func (l *LeafBlot) Value() any {
	return map[string]any{l.def.Name: l.def.leafValue(l.node)}
}
