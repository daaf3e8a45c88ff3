package js

import (
	"github.com/dop251/goja"

	"parchment/pkg/html"
)

// appendChildFn returns a JS function that implements node.appendChild(child).
func (e *elementAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': parameter is not a Node"))
		}
		e.checkHierarchy("appendChild", child)
		e.node.AddChild(child)
		return e.ctx.elementProxy(child)
	}
}

// removeChildFn returns a JS function that implements node.removeChild(child).
func (e *elementAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': parameter is not a Node"))
		}
		removed := e.node.RemoveChild(child)
		if removed == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
		}
		return e.ctx.elementProxy(removed)
	}
}

// insertBeforeFn returns a JS function that implements node.insertBefore(newNode, refNode).
func (e *elementAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': 1 argument required"))
		}
		newChild := e.ctx.unwrapNode(call.Arguments[0])
		if newChild == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': parameter 1 is not a Node"))
		}
		var refChild *html.Node
		if len(call.Arguments) > 1 {
			refChild = e.ctx.unwrapNode(call.Arguments[1])
		}
		if refChild != nil && refChild.Parent != e.node {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': The node before which the new node is to be inserted is not a child of this node"))
		}
		e.checkHierarchy("insertBefore", newChild)
		e.node.InsertBefore(newChild, refChild)
		return e.ctx.elementProxy(newChild)
	}
}

// replaceChildFn returns a JS function that implements node.replaceChild(newNode, oldNode).
func (e *elementAccessor) replaceChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'replaceChild': 2 arguments required"))
		}
		newChild := e.ctx.unwrapNode(call.Arguments[0])
		oldChild := e.ctx.unwrapNode(call.Arguments[1])
		if newChild == nil || oldChild == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'replaceChild': parameter is not a Node"))
		}
		e.checkHierarchy("replaceChild", newChild)
		if e.node.ReplaceChild(newChild, oldChild) == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'replaceChild': The node to be replaced is not a child of this node"))
		}
		return e.ctx.elementProxy(oldChild)
	}
}

// checkHierarchy rejects inserting a node into itself or its own subtree.
func (e *elementAccessor) checkHierarchy(op string, child *html.Node) {
	if child.Contains(e.node) {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + op + "': The new child element contains the parent"))
	}
}

// setInnerHTML parses the markup and replaces the node's children.
func (e *elementAccessor) setInnerHTML(markup string) {
	e.node.RemoveChildren()
	if markup == "" {
		return
	}
	children, err := html.ParseFragment(e.ctx.doc, markup)
	if err != nil {
		panic(e.ctx.vm.NewGoError(err))
	}
	for _, child := range children {
		e.node.AddChild(child)
	}
}

// splitTextFn returns a JS function for text.splitText(offset).
func (e *elementAccessor) splitTextFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		offset := 0
		if len(call.Arguments) > 0 {
			offset = int(call.Arguments[0].ToInteger())
		}
		after, err := e.node.SplitText(offset)
		if err != nil {
			panic(e.ctx.vm.NewGoError(err))
		}
		return e.ctx.elementProxy(after)
	}
}

// appendFn returns a JS function for element.append(...nodes).
// Accepts nodes and strings (strings become text nodes).
func (e *elementAccessor) appendFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			e.node.AddChild(e.ctx.toNode(arg))
		}
		return goja.Undefined()
	}
}

// prependFn returns a JS function for element.prepend(...nodes).
func (e *elementAccessor) prependFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		first := e.node.FirstChild()
		for _, arg := range call.Arguments {
			node := e.ctx.toNode(arg)
			if node == first {
				first = node.NextSibling()
			}
			e.node.InsertBefore(node, first)
		}
		return goja.Undefined()
	}
}

// beforeFn returns a JS function for element.before(...nodes).
func (e *elementAccessor) beforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		for _, arg := range call.Arguments {
			parent.InsertBefore(e.ctx.toNode(arg), e.node)
		}
		return goja.Undefined()
	}
}

// afterFn returns a JS function for element.after(...nodes).
func (e *elementAccessor) afterFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		ref := e.node.NextSibling()
		for _, arg := range call.Arguments {
			parent.InsertBefore(e.ctx.toNode(arg), ref)
		}
		return goja.Undefined()
	}
}

// replaceWithFn returns a JS function for element.replaceWith(...nodes).
func (e *elementAccessor) replaceWithFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parent := e.node.Parent
		if parent == nil {
			return goja.Undefined()
		}
		for _, arg := range call.Arguments {
			parent.InsertBefore(e.ctx.toNode(arg), e.node)
		}
		parent.RemoveChild(e.node)
		return goja.Undefined()
	}
}

// replaceChildrenFn returns a JS function for element.replaceChildren(...nodes).
func (e *elementAccessor) replaceChildrenFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		e.node.RemoveChildren()
		for _, arg := range call.Arguments {
			e.node.AddChild(e.ctx.toNode(arg))
		}
		return goja.Undefined()
	}
}
