// Package inspect renders snapshots of a node tree for debugging: an
// indented text outline and a JSON document.
package inspect

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/sjson"

	"parchment/pkg/blot"
)

// Options controls the text outline.
type Options struct {
	// Color forces ANSI colors on; otherwise output is plain.
	Color bool
	// Offsets prefixes each line with the node's [start, end) range
	// relative to the root.
	Offsets bool
}

type palette struct {
	name, text, format, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		name:   color.New(color.FgCyan, color.Bold),
		text:   color.New(color.FgGreen),
		format: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.name, p.text, p.format, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Dump writes an indented outline of root and its descendants to w.
func Dump(w io.Writer, root blot.Blot, opts Options) error {
	d := &dumper{w: w, opts: opts, colors: newPalette(opts.Color), root: root}
	d.node(root, 0)
	return d.err
}

// Text returns the outline Dump would write.
func Text(root blot.Blot, opts Options) string {
	var sb strings.Builder
	_ = Dump(&sb, root, opts)
	return sb.String()
}

type dumper struct {
	w      io.Writer
	opts   Options
	colors palette
	root   blot.Blot
	err    error
}

func (d *dumper) node(b blot.Blot, depth int) {
	if d.err != nil {
		return
	}
	var line strings.Builder
	if d.opts.Offsets {
		start := b.Offset(d.root)
		line.WriteString(d.colors.dim.Sprintf("[%d,%d) ", start, start+b.Length()))
	}
	line.WriteString(strings.Repeat("  ", depth))
	line.WriteString(d.colors.name.Sprint(b.Name()))
	if t, ok := b.(*blot.Text); ok {
		line.WriteString(" " + d.colors.text.Sprint(strconv.Quote(t.String())))
	} else if l, ok := b.(blot.Leaf); ok {
		if v, ok := l.Value().(map[string]any); ok && !isPlain(v[b.Name()]) {
			line.WriteString(" " + d.colors.text.Sprint(fmt.Sprint(v[b.Name()])))
		}
	}
	if f, ok := b.(blot.Formattable); ok {
		if formats := formatList(f.Formats()); formats != "" {
			line.WriteString(" " + d.colors.format.Sprint("{"+formats+"}"))
		}
	}
	line.WriteByte('\n')
	if _, err := io.WriteString(d.w, line.String()); err != nil {
		d.err = err
		return
	}
	if p, ok := b.(blot.Parent); ok {
		p.Children().ForEach(func(child blot.Blot) { d.node(child, depth+1) })
	}
}

func isPlain(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func formatList(formats map[string]any) string {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, formats[k])
	}
	return strings.Join(parts, ", ")
}

// JSON encodes root as {"name", "length", "formats", "value" | "text",
// "children"}. Only parent kinds carry "children".
func JSON(root blot.Blot) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}
	set("name", root.Name())
	set("length", root.Length())
	if t, ok := root.(*blot.Text); ok {
		set("text", t.String())
	} else if l, ok := root.(blot.Leaf); ok {
		set("value", l.Value())
	}
	if f, ok := root.(blot.Formattable); ok {
		for k, v := range f.Formats() {
			set("formats."+escapePath(k), v)
		}
	}
	p, isParent := root.(blot.Parent)
	if !isParent || !root.Definition().Kind.IsParent() {
		return out, err
	}
	if err == nil {
		out, err = sjson.SetRawBytes(out, "children", []byte(`[]`))
	}
	p.Children().ForEach(func(child blot.Blot) {
		if err != nil {
			return
		}
		var raw []byte
		if raw, err = JSON(child); err == nil {
			out, err = sjson.SetRawBytes(out, "children.-1", raw)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", root.Name(), err)
	}
	return out, nil
}

// escapePath quotes the characters sjson treats as path syntax.
func escapePath(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
