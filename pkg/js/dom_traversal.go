package js

import (
	"github.com/dop251/goja"

	"parchment/pkg/html"
)

// Element-only traversal on elementAccessor. Plain sibling and child
// access goes through the node methods directly.

func (e *elementAccessor) firstElementChild() goja.Value {
	for _, child := range e.node.Children {
		if child.Type == html.ElementNode {
			return e.ctx.elementProxy(child)
		}
	}
	return goja.Null()
}

func (e *elementAccessor) lastElementChild() goja.Value {
	for i := len(e.node.Children) - 1; i >= 0; i-- {
		if e.node.Children[i].Type == html.ElementNode {
			return e.ctx.elementProxy(e.node.Children[i])
		}
	}
	return goja.Null()
}

func (e *elementAccessor) nextElementSibling() goja.Value {
	for n := e.node.NextSibling(); n != nil; n = n.NextSibling() {
		if n.Type == html.ElementNode {
			return e.ctx.elementProxy(n)
		}
	}
	return goja.Null()
}

func (e *elementAccessor) previousElementSibling() goja.Value {
	for n := e.node.PrevSibling(); n != nil; n = n.PrevSibling() {
		if n.Type == html.ElementNode {
			return e.ctx.elementProxy(n)
		}
	}
	return goja.Null()
}

// registerDocumentProperties adds document.documentElement, document.head
// and document.body. A fragment without an <html> wrapper has the first
// root element as its documentElement.
func registerDocumentProperties(ctx *domContext, docObj *goja.Object, doc *html.Document) {
	findElement := func(tag string) *html.Node {
		for _, child := range doc.Root.Children {
			if child.Type == html.ElementNode && child.TagName == tag {
				return child
			}
		}
		for _, child := range doc.Root.Children {
			if child.Type == html.ElementNode && child.TagName == "html" {
				for _, grandchild := range child.Children {
					if grandchild.Type == html.ElementNode && grandchild.TagName == tag {
						return grandchild
					}
				}
			}
		}
		return nil
	}

	root := findElement("html")
	if root == nil {
		for _, child := range doc.Root.Children {
			if child.Type == html.ElementNode {
				root = child
				break
			}
		}
	}
	docObj.Set("documentElement", ctx.nodeOrNull(root))
	docObj.Set("head", ctx.nodeOrNull(findElement("head")))
	docObj.Set("body", ctx.nodeOrNull(findElement("body")))
}
