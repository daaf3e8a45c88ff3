package blot

// Embed is a formattable leaf such as an image or a line break.
type Embed struct {
	LeafBlot
}

// Format wraps the embed, which by itself carries no formats.
func (e *Embed) Format(name string, value any) error {
	return e.ShadowBlot.FormatAt(0, e.self.Length(), name, value)
}

func (e *Embed) FormatAt(index, length int, name string, value any) error {
	if index == 0 && length == e.self.Length() {
		return e.self.(Formattable).Format(name, value)
	}
	return e.ShadowBlot.FormatAt(index, length, name, value)
}

// Formats comes from the type's extractor, when it has one.
func (e *Embed) Formats() map[string]any {
	if e.def.Formats == nil {
		return map[string]any{}
	}
	switch v := e.def.Formats(e.node).(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		return map[string]any{e.def.Name: v}
	}
}

var _ Leaf = (*Embed)(nil)
var _ Leaf = (*Text)(nil)
var _ Formattable = (*Embed)(nil)
var _ Formattable = (*Inline)(nil)
var _ Formattable = (*Block)(nil)
var _ Parent = (*Scroll)(nil)

