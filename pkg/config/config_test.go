package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"parchment/pkg/blot"
	"parchment/pkg/html"
	"parchment/pkg/scope"
)

const yamlSchema = `
blots:
  - name: bold
    kind: inline
    tags: [strong, b]
  - name: mention
    kind: embed
    tags: [span]
    class: mention
    value_attribute: data-id
  - name: quote
    kind: block
    extends: block
    tags: [blockquote]
attributors:
  - name: align
    type: class
    scope: block
    whitelist: [center, right]
  - name: font
    type: style
    key: font-family
    scope: inline
`

const tomlSchema = `
[[blots]]
name = "bold"
kind = "inline"
tags = ["strong"]

[[attributors]]
name = "color"
type = "style"
scope = "inline"
`

func newRegistry(t *testing.T) *blot.Registry {
	t.Helper()
	return blot.NewRegistry(html.NewDocument(), zaptest.NewLogger(t))
}

func TestParseYAML(t *testing.T) {
	s, err := Parse([]byte(yamlSchema), YAML)
	require.NoError(t, err)
	require.Len(t, s.Blots, 3)
	assert.Equal(t, []string{"strong", "b"}, s.Blots[0].Tags)
	assert.Equal(t, "data-id", s.Blots[1].ValueAttribute)
	require.Len(t, s.Attributors, 2)
	assert.Equal(t, "font-family", s.Attributors[1].Key)
}

func TestParseTOML(t *testing.T) {
	s, err := Parse([]byte(tomlSchema), TOML)
	require.NoError(t, err)
	require.Len(t, s.Blots, 1)
	assert.Equal(t, "strong", s.Blots[0].Tags[0])
	assert.Equal(t, "style", s.Attributors[0].Type)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		schema string
	}{
		{"missing name", "blots:\n  - kind: inline\n"},
		{"unknown kind", "blots:\n  - name: x\n    kind: widget\n"},
		{"bad scope", "blots:\n  - name: x\n    kind: inline\n    scope: sideways\n"},
		{"bad attributor type", "attributors:\n  - name: x\n    type: magic\n"},
		{"duplicate blot", "blots:\n  - name: x\n    kind: inline\n  - name: x\n    kind: block\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.schema), YAML)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("blots: [\n"), YAML)
	assert.Error(t, err)
	_, err = Parse([]byte("[[blots"), TOML)
	assert.Error(t, err)
	_, err = Parse(nil, Format("ini"))
	assert.Error(t, err)
}

func TestLoadPicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "schema.yml")
	tomlPath := filepath.Join(dir, "schema.toml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlSchema), 0o644))
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlSchema), 0o644))

	s, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, s.Blots, 3)

	s, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Len(t, s.Blots, 1)

	_, err = Load(filepath.Join(dir, "schema.json"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	s, err := Parse([]byte(yamlSchema), YAML)
	require.NoError(t, err)
	reg := newRegistry(t)
	require.NoError(t, s.Apply(reg))

	bold := reg.Query("bold", scope.Any)
	require.NotNil(t, bold)
	assert.Equal(t, blot.KindInline, bold.Kind)
	assert.Equal(t, scope.InlineBlot, bold.Scope)

	quote := reg.Query("quote", scope.Block)
	require.NotNil(t, quote)
	assert.True(t, quote.Is("block"))

	doc := reg.Document()
	span := doc.CreateElement("span")
	span.AddClass("mention")
	def := reg.QueryNode(span, scope.Any)
	require.NotNil(t, def)
	assert.Equal(t, "mention", def.Name)

	align := reg.Attributor("align", scope.Block)
	require.NotNil(t, align)
	assert.Equal(t, scope.BlockAttribute, align.Scope())
	assert.NotNil(t, reg.Attributor("font-family", scope.Inline))
}

func TestApplyUnknownBase(t *testing.T) {
	s := &Schema{Blots: []BlotSpec{{Name: "x", Kind: "block", Extends: "nothing"}}}
	assert.ErrorIs(t, s.Apply(newRegistry(t)), blot.ErrDefinition)
}

func TestApplyFrozenRegistry(t *testing.T) {
	reg := newRegistry(t)
	reg.Freeze()
	assert.ErrorIs(t, Default().Apply(reg), blot.ErrDefinition)
}

func TestDefaultSchema(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	reg := newRegistry(t)
	require.NoError(t, s.Apply(reg))

	for _, name := range []string{"bold", "italic", "header", "list", "list-item", "image"} {
		assert.NotNil(t, reg.Query(name, scope.Any), name)
	}
	h2 := reg.QueryNode(reg.Document().CreateElement("h2"), scope.Block)
	require.NotNil(t, h2)
	assert.Equal(t, "header", h2.Name)
	assert.NotNil(t, reg.Attributor("color", scope.Inline))
	assert.Nil(t, reg.Attributor("color", scope.Block))
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("a/b.YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)
	f, err = FormatFor("b.toml")
	require.NoError(t, err)
	assert.Equal(t, TOML, f)
	_, err = FormatFor("b")
	assert.Error(t, err)
}
