package blot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"parchment/pkg/attributor"
	"parchment/pkg/html"
	"parchment/pkg/scope"
)

func testRegistry(t *testing.T, doc *html.Document) *Registry {
	t.Helper()
	return testRegistryLogging(t, doc, zaptest.NewLogger(t))
}

func testRegistryLogging(t *testing.T, doc *html.Document, logger *zap.Logger) *Registry {
	t.Helper()
	reg := NewRegistry(doc, logger)
	defs := []*Definition{
		{Name: "bold", Kind: KindInline, TagNames: []string{"strong"}, AllowedChildren: []string{"inline", "embed", "text"}},
		{Name: "italic", Kind: KindInline, TagNames: []string{"em"}, AllowedChildren: []string{"inline", "embed", "text"}},
		{Name: "header", Kind: KindBlock, TagNames: []string{"h1", "h2"}, AllowedChildren: []string{"inline", "embed", "text"}},
		{Name: "image", Kind: KindEmbed, TagNames: []string{"img"}, ValueAttribute: "src"},
		{Name: "break", Kind: KindEmbed, TagNames: []string{"br"}},
		{Name: "block", Kind: KindBlock, TagNames: []string{"p"}, AllowedChildren: []string{"inline", "embed", "text"}, DefaultChild: "break"},
	}
	for _, def := range defs {
		require.NoError(t, reg.Register(def))
	}
	require.NoError(t, reg.RegisterAttributor(attributor.NewClass("align", "align", attributor.Options{
		Scope:     scope.Block,
		Whitelist: []string{"center", "right"},
	})))
	require.NoError(t, reg.RegisterAttributor(attributor.NewStyle("color", "color", attributor.Options{Scope: scope.Inline})))
	reg.Freeze()
	return reg
}

// build models markup inside a fresh scroll.
func build(t *testing.T, markup string) (*Registry, *Scroll) {
	t.Helper()
	doc := html.NewDocument()
	root := doc.CreateElement("div")
	doc.Root.AddChild(root)
	require.NoError(t, html.ParseInto(root, markup))
	reg := testRegistry(t, doc)
	s, err := NewScroll(reg, root)
	require.NoError(t, err)
	return reg, s
}

func child(t *testing.T, p Parent, i int) Blot {
	t.Helper()
	children := p.Children().Slice()
	require.Greater(t, len(children), i, "%s has %d children", p.Name(), len(children))
	return children[i]
}

func names(p Parent) []string {
	var out []string
	p.Children().ForEach(func(b Blot) { out = append(out, b.Name()) })
	return out
}

// checkLengths asserts that every container's length is the sum of its
// children's, and that lengths agree with the surface text.
func checkLengths(t *testing.T, b Blot) int {
	t.Helper()
	p, ok := b.(Parent)
	if !ok {
		return b.Length()
	}
	sum := 0
	p.Children().ForEach(func(c Blot) { sum += checkLengths(t, c) })
	assert.Equal(t, sum, b.Length(), "length of %s", b.Name())
	return sum
}

func TestBuildFragment(t *testing.T) {
	_, s := build(t, `<p>A<em>B</em></p>`)
	require.Equal(t, []string{"block"}, names(s))

	p := child(t, s, 0).(Parent)
	assert.Equal(t, []string{"text", "italic"}, names(p))
	assert.Equal(t, "A", child(t, p, 0).(Leaf).Value())

	em := child(t, p, 1).(Parent)
	assert.True(t, em.Definition().Is("inline"))
	assert.True(t, em.Definition().Is("format"))
	assert.Equal(t, "B", child(t, em, 0).(Leaf).Value())
	assert.Equal(t, s, em.Scroll())
	assert.Equal(t, 2, s.Length())
}

func TestBuildWrapsUnknownElements(t *testing.T) {
	_, s := build(t, `<p>a<blink>b</blink></p>`)
	p := child(t, s, 0).(Parent)
	require.Equal(t, []string{"text", "inline"}, names(p))
	assert.Equal(t, "a<span>b</span>", p.Node().Serialize())
	assert.Equal(t, 2, p.Length())
}

func TestLengthIsSumOfChildren(t *testing.T) {
	_, s := build(t, `<p>ab<strong>cd<em>e</em></strong><img src="x.png"></p><h1>xyz</h1>`)
	assert.Equal(t, 9, checkLengths(t, s))
}

func TestTextCacheMirrorsSurface(t *testing.T) {
	_, s := build(t, "<p>e\u0301x</p>")
	text := child(t, child(t, s, 0).(Parent), 0)
	assert.Equal(t, 3, text.Length())
	assert.Equal(t, "e\u0301x", text.(Leaf).Value())
	assert.Equal(t, text.Node().Text, text.(Leaf).Value())

	require.NoError(t, text.DeleteAt(2, 1))
	assert.Equal(t, "e\u0301", text.Node().Text)
	require.NoError(t, text.InsertAt(0, "a", nil))
	assert.Equal(t, "ae\u0301", text.Node().Text)
	assert.Equal(t, text.Node().Text, text.(Leaf).Value())
	assert.Equal(t, 3, text.Length())
}

func TestSplitIsLossless(t *testing.T) {
	const content = "hello"
	for i := 0; i <= len(content); i++ {
		_, s := build(t, `<p>he<strong>ll</strong>o</p>`)
		p := child(t, s, 0).(Parent)
		after, err := p.Split(i, false)
		require.NoError(t, err)
		switch i {
		case 0:
			assert.Equal(t, Blot(p), after)
		case len(content):
			assert.Nil(t, after)
		default:
			require.NotNil(t, after)
			assert.Equal(t, content[:i], p.Node().TextContent())
			assert.Equal(t, content[i:], after.Node().TextContent())
			assert.Equal(t, Blot(after), p.Next())
		}
		assert.Equal(t, content, s.Node().TextContent())
		checkLengths(t, s)
	}
}

func TestSplitKeepsFormatOnBothHalves(t *testing.T) {
	_, s := build(t, `<p><strong style="color: red">abcd</strong></p>`)
	p := child(t, s, 0).(Parent)
	strong := child(t, p, 0).(Parent)
	after, err := strong.Split(1, false)
	require.NoError(t, err)
	assert.Equal(t, `<strong style="color: red">a</strong><strong style="color: red">bcd</strong>`, p.Node().Serialize())
	assert.Equal(t, map[string]any{"bold": true, "color": "red"}, after.(Formattable).Formats())
}

func TestIsolate(t *testing.T) {
	_, s := build(t, `<p>hello</p><p>x</p>`)
	p := child(t, s, 0).(Parent)
	other := child(t, s, 1)
	text := child(t, p, 0)

	mid, err := text.Isolate(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "ell", mid.(Leaf).Value())
	assert.Equal(t, 1, mid.Offset(p))
	assert.Equal(t, 3, mid.Length())

	assert.Equal(t, text, child(t, p, 0), "leading segment keeps its identity")
	assert.Equal(t, "h", text.(Leaf).Value())
	assert.Equal(t, "o", child(t, p, 2).(Leaf).Value())
	assert.Equal(t, other, child(t, s, 1))
	assert.Equal(t, "hello", p.Node().TextContent())
}

func TestInsertIncompatibleLeavesTreeUnchanged(t *testing.T) {
	reg, s := build(t, `<p>ab</p>`)
	p := child(t, s, 0).(Parent)
	before := s.Node().Serialize()
	kids := p.Children().Slice()

	header, err := reg.Create("header", 1)
	require.NoError(t, err)
	err = p.InsertBefore(header, nil)
	require.ErrorIs(t, err, ErrCompatibility)
	assert.Contains(t, err.Error(), "cannot insert header into block")

	assert.Equal(t, kids, p.Children().Slice())
	assert.Equal(t, before, s.Node().Serialize())
	assert.Nil(t, header.Parent())
	assert.Zero(t, s.Pending())
}

func TestWrapIncompatibleLeavesTreeUnchanged(t *testing.T) {
	_, s := build(t, `<p>ab</p>`)
	p := child(t, s, 0).(Parent)
	_, err := child(t, p, 0).Wrap("header", 1)
	require.ErrorIs(t, err, ErrCompatibility)
	assert.Equal(t, "<p>ab</p>", s.Node().Serialize())
	assert.Equal(t, []string{"text"}, names(p))
}

func TestDeleteAtFullLengthRemovesNode(t *testing.T) {
	reg, s := build(t, `<p>ab</p><p>cd</p>`)
	p := child(t, s, 0).(Parent)
	node := p.Node()
	require.NoError(t, p.DeleteAt(0, p.Length()))
	assert.Equal(t, []string{"block"}, names(s))
	assert.Equal(t, "<p>cd</p>", s.Node().Serialize())
	assert.Nil(t, reg.Find(node, false))
	assert.Nil(t, p.Parent())
}

func TestDeleteAtAcrossChildren(t *testing.T) {
	_, s := build(t, `<p>ab<strong>cd</strong>ef</p>`)
	p := child(t, s, 0).(Parent)
	require.NoError(t, p.DeleteAt(1, 4))
	assert.Equal(t, "af", p.Node().TextContent())
	assert.Equal(t, 2, p.Length())
}

func TestFormatAtWrapsRange(t *testing.T) {
	_, s := build(t, `<p>hello</p>`)
	require.NoError(t, s.FormatAt(1, 2, "bold", true))
	p := child(t, s, 0).(Parent)
	assert.Equal(t, "h<strong>el</strong>lo", p.Node().Serialize())
	assert.Equal(t, []string{"text", "bold", "text"}, names(p))
	assert.Equal(t, 5, p.Length())
}

func TestFormatAtAttributeWrapsInPlainInline(t *testing.T) {
	_, s := build(t, `<p>hello</p>`)
	require.NoError(t, s.FormatAt(1, 2, "color", "red"))
	p := child(t, s, 0).(Parent)
	assert.Equal(t, `h<span style="color: red">el</span>lo`, p.Node().Serialize())
	span := child(t, p, 1).(Formattable)
	assert.Equal(t, map[string]any{"color": "red"}, span.Formats())
}

func TestFormatAtUnknownIsNoop(t *testing.T) {
	_, s := build(t, `<p>hello</p>`)
	require.NoError(t, s.FormatAt(0, 5, "underline", true))
	assert.Equal(t, "<p>hello</p>", s.Node().Serialize())
}

func TestBlockFormats(t *testing.T) {
	_, s := build(t, `<p>ab</p>`)
	p := child(t, s, 0).(Formattable)
	assert.Empty(t, p.Formats())

	require.NoError(t, p.Format("header", 2))
	header := child(t, s, 0).(Formattable)
	assert.Equal(t, "<h2>ab</h2>", s.Node().Serialize())
	assert.Equal(t, map[string]any{"header": "h2"}, header.Formats())

	require.NoError(t, header.Format("align", "center"))
	require.NoError(t, header.Format("align", "left"))
	assert.Equal(t, `<h2 class="align-center">ab</h2>`, s.Node().Serialize())

	require.NoError(t, header.Format("header", false))
	assert.Equal(t, `<p class="align-center">ab</p>`, s.Node().Serialize())
	assert.Equal(t, map[string]any{"align": "center"}, child(t, s, 0).(Formattable).Formats())
}

func TestFormatIncompatibleKeepsContent(t *testing.T) {
	reg, s := build(t, `<p><strong>ab</strong></p>`)
	p := child(t, s, 0).(Parent)
	strong := child(t, p, 0)
	text := child(t, strong.(Parent), 0)

	require.NoError(t, strong.(Formattable).Format("header", 1))
	assert.Equal(t, "<p><strong>ab</strong></p>", s.Node().Serialize())
	assert.Equal(t, strong, child(t, p, 0))
	assert.Equal(t, text, child(t, strong.(Parent), 0))
	assert.Equal(t, strong, text.Parent())
	assert.Equal(t, 2, s.Length())
	assert.Equal(t, text, reg.Find(text.Node(), false))
}

func TestFormatAlreadyInEffectKeepsNode(t *testing.T) {
	_, s := build(t, `<h2>ab</h2>`)
	h := child(t, s, 0)
	require.NoError(t, h.(Formattable).Format("header", 2))
	assert.Same(t, h, child(t, s, 0))
	require.NoError(t, h.(Formattable).Format("header", "h2"))
	assert.Same(t, h, child(t, s, 0))

	require.NoError(t, h.(Formattable).Format("header", 1))
	assert.NotSame(t, h, child(t, s, 0))
	assert.Equal(t, "<h1>ab</h1>", s.Node().Serialize())
}

func TestBlockFormatAtAppliesToWholeBlock(t *testing.T) {
	_, s := build(t, `<p>abc</p>`)
	require.NoError(t, s.FormatAt(1, 1, "align", "right"))
	assert.Equal(t, `<p class="align-right">abc</p>`, s.Node().Serialize())
}

func TestInlineFormatRemoval(t *testing.T) {
	_, s := build(t, `<p><strong style="color: red">ab</strong></p>`)
	p := child(t, s, 0).(Parent)
	strong := child(t, p, 0).(Formattable)
	require.NoError(t, strong.Format("bold", false))
	assert.Equal(t, `<span style="color: red">ab</span>`, p.Node().Serialize())
	assert.Equal(t, []string{"inline"}, names(p))
}

func TestInsertAt(t *testing.T) {
	_, s := build(t, `<p>hello</p>`)
	require.NoError(t, s.InsertAt(2, "XY", nil))
	assert.Equal(t, "<p>heXYllo</p>", s.Node().Serialize())

	require.NoError(t, s.InsertAt(2, "image", "a.png"))
	assert.Equal(t, `<p>he<img src="a.png">XYllo</p>`, s.Node().Serialize())
	p := child(t, s, 0).(Parent)
	img := child(t, p, 1).(Leaf)
	assert.Equal(t, map[string]any{"image": "a.png"}, img.Value())
	assert.Equal(t, 8, s.Length())
}

func TestBlockInsertAtSplitsForBlocks(t *testing.T) {
	_, s := build(t, `<p>hello</p>`)
	p := child(t, s, 0)
	require.NoError(t, p.InsertAt(2, "header", 1))
	assert.Equal(t, []string{"block", "header", "block"}, names(s))
	assert.Equal(t, "<p>he</p><h1></h1><p>llo</p>", s.Node().Serialize())
}

func TestPathAndDescendants(t *testing.T) {
	_, s := build(t, `<p>ab<strong>cd</strong></p><p>ef</p>`)
	path := s.Path(3, false)
	require.Len(t, path, 4)
	var got []string
	for _, pos := range path {
		got = append(got, pos.Blot.Name())
	}
	assert.Equal(t, []string{"scroll", "block", "bold", "text"}, got)
	assert.Equal(t, []int{3, 3, 1, 1}, []int{path[0].Offset, path[1].Offset, path[2].Offset, path[3].Offset})

	b, offset := s.Descendant(Is("bold"), 2)
	require.NotNil(t, b)
	assert.Equal(t, "bold", b.Name())
	assert.Equal(t, 0, offset)

	none, offset := s.Descendant(Is("image"), 2)
	assert.Nil(t, none)
	assert.Equal(t, -1, offset)

	texts := s.Descendants(Is("text"), 0, s.Length())
	require.Len(t, texts, 3)
	assert.Equal(t, "cd", texts[1].(Leaf).Value())
	assert.Equal(t, 2, texts[1].Offset(s))
	assert.Equal(t, 0, texts[1].Offset(nil))
	assert.Equal(t, 4, texts[2].Offset(s))
}

func TestLeafIndexAndPosition(t *testing.T) {
	_, s := build(t, `<p>ab<img src="x.png">cd</p>`)
	p := child(t, s, 0).(Parent)
	img := child(t, p, 1).(Leaf)
	text := child(t, p, 0).(Leaf)

	assert.Equal(t, 1, img.Index(img.Node(), 4))
	assert.Equal(t, 0, img.Index(img.Node(), 0))
	assert.Equal(t, -1, img.Index(text.Node(), 0))

	node, offset := img.Position(0, false)
	assert.Equal(t, p.Node(), node)
	assert.Equal(t, 1, offset)
	_, offset = img.Position(1, false)
	assert.Equal(t, 2, offset)

	node, offset = text.Position(2, false)
	assert.Equal(t, text.Node(), node)
	assert.Equal(t, 2, offset)
	assert.Equal(t, 1, text.Index(text.Node(), 1))
}

func TestCloneIsShallowAndDetached(t *testing.T) {
	_, s := build(t, `<p class="align-center">ab</p>`)
	p := child(t, s, 0)
	clone, err := p.Clone()
	require.NoError(t, err)
	assert.Nil(t, clone.Parent())
	assert.Zero(t, clone.Length())
	assert.Equal(t, map[string]any{"align": "center"}, clone.(Formattable).Formats())
	assert.Equal(t, `<p class="align-center"></p>`, clone.Node().SerializeOuter())
}

func TestMoveChildrenAndUnwrap(t *testing.T) {
	_, s := build(t, `<p>a<em>b<strong>c</strong></em>d</p>`)
	p := child(t, s, 0).(Parent)
	em := child(t, p, 1).(Parent)
	require.NoError(t, em.Unwrap())
	assert.Equal(t, []string{"text", "text", "bold", "text"}, names(p))
	assert.Equal(t, "ab<strong>c</strong>d", p.Node().Serialize())
	assert.Equal(t, 4, p.Length())
}

func TestOperationsAreTraced(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	doc := html.NewDocument()
	root := doc.CreateElement("div")
	doc.Root.AddChild(root)
	require.NoError(t, html.ParseInto(root, `<p>hello</p>`))
	s, err := NewScroll(testRegistryLogging(t, doc, zap.New(core)), root)
	require.NoError(t, err)

	require.NoError(t, s.FormatAt(1, 2, "bold", true))
	require.NoError(t, child(t, s, 0).(Formattable).Format("align", "center"))

	seen := make(map[string]bool)
	for _, entry := range logs.All() {
		seen[entry.Message] = true
	}
	for _, op := range []string{
		"create", "build", "attach", "format at", "isolate", "split", "wrap",
		"insert before", "insert into", "append child", "update", "optimize", "format",
	} {
		assert.True(t, seen[op], "no %q entry", op)
	}

	wraps := logs.FilterMessage("wrap").All()
	require.NotEmpty(t, wraps)
	assert.Equal(t, "text", wraps[0].ContextMap()["blot"])
	assert.Equal(t, "bold", wraps[0].ContextMap()["wrapper"])

	formats := logs.FilterMessage("format").All()
	require.Len(t, formats, 1)
	assert.Equal(t, "block", formats[0].ContextMap()["blot"])
	assert.Equal(t, "align", formats[0].ContextMap()["format"])
}
