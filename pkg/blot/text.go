package blot

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"parchment/pkg/html"
)

// Text is a leaf holding a run of characters. Its cached text mirrors
// the surface data; lengths and offsets count runes.
type Text struct {
	LeafBlot
	text string
}

func (t *Text) read() string {
	return t.node.Text
}

func (t *Text) Length() int {
	return utf8.RuneCountInString(t.text)
}

// Value returns the cached text.
func (t *Text) Value() any {
	return t.text
}

func (t *Text) String() string {
	return t.text
}

// DeleteAt splices the text in place.
func (t *Text) DeleteAt(index, length int) error {
	runes := []rune(t.text)
	start := clamp(index, 0, len(runes))
	end := clamp(index+length, start, len(runes))
	t.text = string(runes[:start]) + string(runes[end:])
	t.node.SetData(t.text)
	return nil
}

func (t *Text) Index(node *html.Node, offset int) int {
	if node == t.node {
		return offset
	}
	return -1
}

// InsertAt splices plain text in place; typed content takes the generic
// path and lands at the split point.
func (t *Text) InsertAt(index int, value string, def any) error {
	if def != nil {
		return t.ShadowBlot.InsertAt(index, value, def)
	}
	runes := []rune(t.text)
	index = clamp(index, 0, len(runes))
	t.text = string(runes[:index]) + value + string(runes[index:])
	t.node.SetData(t.text)
	return nil
}

func (t *Text) Position(index int, inclusive bool) (*html.Node, int) {
	return t.node, index
}

// Split cuts the surface text at index and models the remainder as a new
// Text inserted after this one.
func (t *Text) Split(index int, force bool) (Blot, error) {
	t.debug("split", zap.Int("index", index), zap.Bool("force", force))
	if !force {
		if index == 0 {
			return t.self, nil
		}
		if index == t.Length() {
			return t.next, nil
		}
	}
	if t.parent == nil {
		return nil, orphan("split", t.self)
	}
	rest, err := t.node.SplitText(index)
	if err != nil {
		return nil, err
	}
	after, err := t.reg.instantiate(t.def, rest)
	if err != nil {
		return nil, err
	}
	if err := t.parent.InsertBefore(after, t.next); err != nil {
		return nil, err
	}
	t.text = t.read()
	return after, nil
}

// Optimize resynchronizes with the surface, drops an empty run and
// absorbs a directly following run.
func (t *Text) Optimize(ctx Context) error {
	if err := t.ShadowBlot.Optimize(ctx); err != nil {
		return err
	}
	t.text = t.read()
	if t.text == "" {
		t.self.Remove()
		return nil
	}
	if next, ok := t.next.(*Text); ok && next.Prev() == t.self {
		if err := t.InsertAt(t.Length(), next.text, nil); err != nil {
			return err
		}
		next.Remove()
	}
	return nil
}

func (t *Text) Update(records []*html.MutationRecord, ctx Context) error {
	t.debug("update", zap.Int("records", len(records)))
	for _, rec := range records {
		if rec.Type == html.CharacterData && rec.Target == t.node {
			t.text = t.read()
			break
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
