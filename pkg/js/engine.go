package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"parchment/pkg/html"
)

// Engine runs scripts that edit a document's surface. Every edit a script
// makes goes through the recording node methods, so observers see it as
// mutation records.
type Engine struct {
	vm  *goja.Runtime
	log *zap.Logger
	dom *domContext
}

// New creates an engine with a fresh goja runtime. Console output is
// written to logger; a nil logger discards it.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	vm := goja.New()
	e := &Engine{vm: vm, log: logger}

	c := &consoleAPI{log: logger.Named("console")}
	c.register(vm)

	return e
}

// Bind exposes doc as the global `document`. Binding another document
// replaces it.
func (e *Engine) Bind(doc *html.Document) {
	e.dom = registerDocument(e.vm, doc)
}

// Define sets a global value visible to scripts.
func (e *Engine) Define(name string, value any) error {
	return e.vm.Set(name, value)
}

// Run executes one script against doc.
func (e *Engine) Run(doc *html.Document, script string) error {
	if e.dom == nil || e.dom.doc != doc {
		e.Bind(doc)
	}
	if _, err := e.vm.RunString(script); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

// Execute runs the scripts collected from the document's markup, in
// order, stopping at the first failure.
func (e *Engine) Execute(doc *html.Document) error {
	for i, script := range doc.Scripts {
		if err := e.Run(doc, script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		e.log.Debug("executed script", zap.Int("index", i))
	}
	return nil
}
