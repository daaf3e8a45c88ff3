package blot

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"parchment/pkg/attributor"
	"parchment/pkg/html"
	"parchment/pkg/scope"
)

// Registry resolves type names and surface nodes to node types and
// attribute handlers, and owns the node-to-blot side table. A Registry
// serves exactly one document.
type Registry struct {
	doc *html.Document
	log *zap.Logger

	names    map[string]any // *Definition or attributor.Attributor
	keys     map[string]attributor.Attributor
	classes  map[string]*Definition
	tags     map[string]*Definition
	bindings map[*html.Node]*binding
	frozen   bool
}

// binding is the side-table entry of one surface node. A marked
// binding has been touched by the current reconciliation pass and holds
// the records routed to its blot.
type binding struct {
	blot      Blot
	mutations []*html.MutationRecord
	marked    bool
}

// NewRegistry returns a registry for doc seeded with the built-in types:
// scroll, block, inline, text and embed. A nil logger disables logging.
func NewRegistry(doc *html.Document, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		doc:      doc,
		log:      logger,
		names:    make(map[string]any),
		keys:     make(map[string]attributor.Attributor),
		classes:  make(map[string]*Definition),
		tags:     make(map[string]*Definition),
		bindings: make(map[*html.Node]*binding),
	}
	inlineChildren := []string{"inline", "embed", "text"}
	builtins := []*Definition{
		{Name: "text", Kind: KindText},
		{Name: "embed", Kind: KindEmbed},
		{Name: "inline", Kind: KindInline, TagNames: []string{"span"}, AllowedChildren: inlineChildren},
		{Name: "block", Kind: KindBlock, TagNames: []string{"p"}, AllowedChildren: inlineChildren},
	}
	for _, def := range builtins {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	// scroll is reachable by name only; its div must not claim every div.
	r.names["scroll"] = &Definition{
		Name:            "scroll",
		Kind:            KindScroll,
		Scope:           scope.BlockBlot,
		TagNames:        []string{"div"},
		AllowedChildren: []string{"block", "container"},
		DefaultChild:    "block",
	}
	return r
}

func (r *Registry) Document() *html.Document { return r.doc }
func (r *Registry) Logger() *zap.Logger      { return r.log }

// Freeze closes registration.
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }

// Register adds a node type, indexing it by name, class and tags.
func (r *Registry) Register(def *Definition) error {
	if r.frozen {
		return fmt.Errorf("%w: registry is frozen, cannot register %s", ErrDefinition, def.Name)
	}
	if def.Name == "" {
		return fmt.Errorf("%w: definition has no name", ErrDefinition)
	}
	if def.Extends != "" {
		base, ok := r.names[def.Extends].(*Definition)
		if !ok {
			return fmt.Errorf("%w: %s extends unknown type %s", ErrDefinition, def.Name, def.Extends)
		}
		def.base = base
	}
	if def.Scope == 0 {
		def.Scope = def.defaultScope()
	}
	for i, tag := range def.TagNames {
		def.TagNames[i] = strings.ToLower(tag)
	}
	r.names[def.Name] = def
	if def.ClassName != "" {
		r.classes[def.ClassName] = def
	}
	for _, tag := range def.TagNames {
		if _, taken := r.tags[tag]; !taken || def.ClassName == "" {
			r.tags[tag] = def
		}
	}
	r.log.Debug("registered blot", zap.String("name", def.Name), zap.Stringer("kind", def.Kind))
	return nil
}

// RegisterAttributor adds an attribute handler under its name and key.
func (r *Registry) RegisterAttributor(a attributor.Attributor) error {
	if r.frozen {
		return fmt.Errorf("%w: registry is frozen, cannot register %s", ErrDefinition, a.Name())
	}
	r.names[a.Name()] = a
	r.keys[a.Key()] = a
	r.log.Debug("registered attributor", zap.String("name", a.Name()), zap.String("key", a.Key()))
	return nil
}

// Lookup resolves name to a node type or an attribute handler whose scope
// matches s. At most one result is non-nil.
func (r *Registry) Lookup(name string, s scope.Scope) (*Definition, attributor.Attributor) {
	match, ok := r.names[name]
	if !ok {
		if a, found := r.keys[name]; found {
			match = a
		}
	}
	switch m := match.(type) {
	case *Definition:
		if s.Matches(m.Scope) {
			return m, nil
		}
	case attributor.Attributor:
		if s.Matches(m.Scope()) {
			return nil, m
		}
	}
	return nil, nil
}

// Query resolves a node type by name.
func (r *Registry) Query(name string, s scope.Scope) *Definition {
	def, _ := r.Lookup(name, s)
	return def
}

// Attributor resolves an attribute handler by name or surface key.
func (r *Registry) Attributor(name string, s scope.Scope) attributor.Attributor {
	_, a := r.Lookup(name, s)
	return a
}

// QueryNode resolves the type a surface node would instantiate. Text
// nodes are "text"; elements match their class names before their tag.
func (r *Registry) QueryNode(node *html.Node, s scope.Scope) *Definition {
	var match *Definition
	if node.Type == html.TextNode {
		match, _ = r.names["text"].(*Definition)
	} else {
		for _, class := range node.Classes() {
			if def, ok := r.classes[class]; ok {
				match = def
				break
			}
		}
		if match == nil {
			match = r.tags[node.TagName]
		}
	}
	if match == nil || !s.Matches(match.Scope) {
		return nil
	}
	return match
}

// QueryScope resolves the plain block or inline type for a level.
func (r *Registry) QueryScope(s scope.Scope) *Definition {
	var name string
	switch {
	case s&scope.Level&scope.Block != 0:
		name = "block"
	case s&scope.Level&scope.Inline != 0:
		name = "inline"
	default:
		return nil
	}
	def, _ := r.names[name].(*Definition)
	return def
}

// MatchNode reports whether node resolves to a type within s.
func (r *Registry) MatchNode(node *html.Node, s scope.Scope) bool {
	return r.QueryNode(node, s) != nil
}

// Create fabricates a node of the named type.
func (r *Registry) Create(name string, value any) (Blot, error) {
	def := r.Query(name, scope.Any)
	if def == nil {
		return nil, fmt.Errorf("%w: unable to create %s blot", ErrNotFound, name)
	}
	return r.CreateWith(def, value)
}

// CreateWith fabricates a node of def's type.
func (r *Registry) CreateWith(def *Definition, value any) (Blot, error) {
	node, err := def.create(r.doc, value)
	if err != nil {
		return nil, err
	}
	return r.instantiate(def, node)
}

// CreateFromNode wraps an existing surface node.
func (r *Registry) CreateFromNode(node *html.Node) (Blot, error) {
	def := r.QueryNode(node, scope.Any)
	if def == nil {
		return nil, fmt.Errorf("%w: unable to create %s blot", ErrNotFound, node)
	}
	return r.instantiate(def, node)
}

// CreateScope fabricates the plain block or inline for a level.
func (r *Registry) CreateScope(s scope.Scope) (Blot, error) {
	def := r.QueryScope(s)
	if def == nil {
		return nil, fmt.Errorf("%w: unable to create blot for scope %s", ErrNotFound, s)
	}
	return r.CreateWith(def, nil)
}

// Find returns the blot bound to node. With bubble it walks up the
// surface until a bound ancestor is found.
func (r *Registry) Find(node *html.Node, bubble bool) Blot {
	for n := node; n != nil; n = n.Parent {
		if b, ok := r.bindings[n]; ok {
			return b.blot
		}
		if !bubble {
			break
		}
	}
	return nil
}

func (r *Registry) bind(node *html.Node, b Blot) {
	r.bindings[node] = &binding{blot: b}
}

func (r *Registry) unbind(node *html.Node, b Blot) {
	if cur, ok := r.bindings[node]; ok && cur.blot == b {
		delete(r.bindings, node)
	}
}

// record routes rec to the blot bound to node. It reports whether this
// is the first record of the pass for that blot.
func (r *Registry) record(node *html.Node, rec *html.MutationRecord) bool {
	b, ok := r.bindings[node]
	if !ok {
		return false
	}
	first := !b.marked
	b.marked = true
	b.mutations = append(b.mutations, rec)
	return first
}

// mark flags node for the current optimize pass.
func (r *Registry) mark(node *html.Node) {
	if b, ok := r.bindings[node]; ok {
		b.marked = true
	}
}

func (r *Registry) marked(node *html.Node) bool {
	b, ok := r.bindings[node]
	return ok && b.marked
}

func (r *Registry) bound(node *html.Node) bool {
	_, ok := r.bindings[node]
	return ok
}

func (r *Registry) mutations(node *html.Node) []*html.MutationRecord {
	if b, ok := r.bindings[node]; ok {
		return b.mutations
	}
	return nil
}

func (r *Registry) clearMutations(node *html.Node) {
	if b, ok := r.bindings[node]; ok {
		b.mutations = nil
		b.marked = false
	}
}

// createContent builds text when def is nil, else a node of type value.
func (r *Registry) createContent(value string, def any) (Blot, error) {
	if def == nil {
		return r.Create("text", value)
	}
	return r.Create(value, def)
}

// baseTag is the tag of the plain type name, which carries no format.
func (r *Registry) baseTag(name string) string {
	if def, ok := r.names[name].(*Definition); ok && len(def.TagNames) > 0 {
		return def.TagNames[0]
	}
	return ""
}

// instantiate builds the blot for def over node. Parent kinds build
// their children from the node's existing surface children.
func (r *Registry) instantiate(def *Definition, node *html.Node) (Blot, error) {
	var b Blot
	switch def.Kind {
	case KindText:
		t := &Text{}
		t.init(t, def, r, node)
		t.text = t.read()
		b = t
	case KindLeaf:
		l := &LeafBlot{}
		l.init(l, def, r, node)
		b = l
	case KindEmbed:
		e := &Embed{}
		e.init(e, def, r, node)
		b = e
	case KindContainer:
		c := &ContainerBlot{}
		c.init(c, def, r, node)
		b = c
	case KindFormat:
		f := &FormatBlot{}
		f.init(f, def, r, node)
		b = f
	case KindInline:
		in := &Inline{}
		in.init(in, def, r, node)
		b = in
	case KindBlock:
		bl := &Block{}
		bl.init(bl, def, r, node)
		b = bl
	case KindScroll:
		s := &Scroll{}
		s.init(s, def, r, node)
		b = s
	default:
		return nil, fmt.Errorf("%w: %s has unknown kind %s", ErrDefinition, def.Name, def.Kind)
	}
	if ce := r.log.Check(zap.DebugLevel, "create"); ce != nil {
		ce.Write(zap.String("blot", def.Name), zap.Stringer("node", node))
	}
	if p, ok := b.(Parent); ok {
		if err := p.Build(); err != nil {
			return nil, err
		}
	}
	if f, ok := b.(interface{ buildAttributes() }); ok {
		f.buildAttributes()
	}
	return b, nil
}

// makeBlot returns the blot bound to node, creating one when needed.
// Unknown elements are replaced on the surface by a plain inline that
// adopts their children.
func (r *Registry) makeBlot(node *html.Node) (Blot, error) {
	if b := r.Find(node, false); b != nil {
		return b, nil
	}
	b, err := r.CreateFromNode(node)
	if err == nil {
		return b, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	wrapper, werr := r.CreateScope(scope.Inline)
	if werr != nil {
		return nil, werr
	}
	for _, child := range append([]*html.Node(nil), node.Children...) {
		wrapper.Node().AddChild(child)
	}
	if node.Parent != nil {
		node.Parent.ReplaceChild(wrapper.Node(), node)
	}
	wrapper.Attach()
	if p, ok := wrapper.(Parent); ok {
		if err := p.Build(); err != nil {
			return nil, err
		}
	}
	r.log.Debug("wrapped unknown node", zap.Stringer("node", node))
	return wrapper, nil
}
