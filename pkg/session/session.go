// Package session wires one editable document: the surface, the registry
// built from a schema, the root of the node tree and a script engine whose
// edits are reconciled back into the tree.
package session

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parchment/pkg/blot"
	"parchment/pkg/config"
	"parchment/pkg/html"
	"parchment/pkg/js"
)

// RootID is the id of the element that holds the editable content.
const RootID = "editor"

type Options struct {
	// Schema declares the node types. Nil means config.Default().
	Schema *config.Schema
	Logger *zap.Logger
}

// Session is a single document instance. It is not safe for concurrent
// use.
type Session struct {
	ID       string
	Doc      *html.Document
	Registry *blot.Registry
	Scroll   *blot.Scroll
	Engine   *js.Engine

	log *zap.Logger
}

// New parses markup into a fresh document under a root element with id
// RootID and builds the tree for it.
func New(markup string, opts Options) (*Session, error) {
	schema := opts.Schema
	if schema == nil {
		schema = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	doc := html.NewDocument()
	reg := blot.NewRegistry(doc, logger.Named("blot"))
	if err := schema.Apply(reg); err != nil {
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	reg.Freeze()

	root := doc.CreateElement("div")
	root.SetAttribute("id", RootID)
	doc.Root.AddChild(root)
	if err := html.ParseInto(root, markup); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	scroll, err := blot.NewScroll(reg, root)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}

	s := &Session{
		ID:       id,
		Doc:      doc,
		Registry: reg,
		Scroll:   scroll,
		Engine:   js.New(logger.Named("js")),
		log:      logger,
	}
	s.Engine.Bind(doc)
	if err := s.Engine.Define("editor", s.editorAPI()); err != nil {
		return nil, err
	}
	logger.Info("session started", zap.Int("length", scroll.Length()))
	return s, nil
}

// Run executes script against the surface, then reconciles whatever it
// changed into the tree.
func (s *Session) Run(script string) error {
	if err := s.Engine.Run(s.Doc, script); err != nil {
		return err
	}
	return s.Reconcile()
}

// RunEmbedded executes the scripts found in the parsed markup, then
// reconciles.
func (s *Session) RunEmbedded() error {
	if len(s.Doc.Scripts) == 0 {
		return nil
	}
	if err := s.Engine.Execute(s.Doc); err != nil {
		return err
	}
	return s.Reconcile()
}

// Reconcile brings the tree up to date with pending surface edits.
func (s *Session) Reconcile() error {
	pending := s.Scroll.Pending()
	if err := s.Scroll.Update(nil, nil); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	s.log.Debug("reconciled", zap.Int("records", pending), zap.Int("length", s.Scroll.Length()))
	return nil
}

// HTML serializes the editable content.
func (s *Session) HTML() string {
	return s.Scroll.Node().Serialize()
}

// Close stops observing the surface.
func (s *Session) Close() {
	s.Scroll.Detach()
	_ = s.log.Sync()
}

// editorAPI is the `editor` global: index-based edits on the tree.
func (s *Session) editorAPI() map[string]any {
	return map[string]any{
		"length": func() int { return s.Scroll.Length() },
		"text":   func() string { return s.Scroll.Node().TextContent() },
		"html":   s.HTML,
		"insertText": func(index int, text string) error {
			return s.Scroll.InsertAt(index, text, nil)
		},
		"insertEmbed": func(index int, name string, value any) error {
			if value == nil {
				value = true
			}
			return s.Scroll.InsertAt(index, name, value)
		},
		"deleteText": func(index, length int) error {
			return s.Scroll.DeleteAt(index, length)
		},
		"formatText": func(index, length int, name string, value any) error {
			return s.Scroll.FormatAt(index, length, name, value)
		},
		"update": s.Reconcile,
	}
}
