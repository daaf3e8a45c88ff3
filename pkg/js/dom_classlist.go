package js

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"parchment/pkg/html"
)

var classListKeys = []string{
	"length", "value", "add", "remove", "toggle", "contains", "replace", "item", "toString",
}

// classList backs element.classList. Edits go through the class helpers
// on html.Node, so each one that changes the token set is recorded as an
// attribute mutation of the element.
type classList struct {
	ctx  *domContext
	node *html.Node
}

func newClassListProxy(ctx *domContext, node *html.Node) goja.Value {
	return ctx.vm.NewDynamicObject(&classList{ctx: ctx, node: node})
}

func (cl *classList) Get(key string) goja.Value {
	vm := cl.ctx.vm
	tokens := cl.node.Classes()
	switch key {
	case "length":
		return vm.ToValue(len(tokens))
	case "value":
		return vm.ToValue(strings.Join(tokens, " "))
	case "toString":
		return vm.ToValue(func() string { return strings.Join(cl.node.Classes(), " ") })
	case "add":
		return vm.ToValue(cl.forEachToken(cl.node.AddClass))
	case "remove":
		return vm.ToValue(cl.forEachToken(cl.node.RemoveClass))
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(len(call.Arguments) > 0 && cl.node.HasClass(call.Arguments[0].String()))
		})
	case "toggle":
		return vm.ToValue(cl.toggle)
	case "replace":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'replace': 2 arguments required"))
			}
			return vm.ToValue(cl.node.ReplaceClass(call.Arguments[0].String(), call.Arguments[1].String()))
		})
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			return cl.token(int(call.Arguments[0].ToInteger()), goja.Null())
		})
	}
	if i, err := strconv.Atoi(key); err == nil {
		return cl.token(i, goja.Undefined())
	}
	return goja.Undefined()
}

// token is the i-th class, or missing when i is out of range.
func (cl *classList) token(i int, missing goja.Value) goja.Value {
	tokens := cl.node.Classes()
	if i < 0 || i >= len(tokens) {
		return missing
	}
	return cl.ctx.vm.ToValue(tokens[i])
}

func (cl *classList) forEachToken(fn func(string)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			fn(arg.String())
		}
		return goja.Undefined()
	}
}

// toggle flips a token, or with a second argument forces it on or off.
func (cl *classList) toggle(call goja.FunctionCall) goja.Value {
	vm := cl.ctx.vm
	if len(call.Arguments) == 0 {
		panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
	}
	token := call.Arguments[0].String()
	if len(call.Arguments) == 1 {
		return vm.ToValue(cl.node.ToggleClass(token))
	}
	if call.Arguments[1].ToBoolean() {
		cl.node.AddClass(token)
		return vm.ToValue(true)
	}
	cl.node.RemoveClass(token)
	return vm.ToValue(false)
}

func (cl *classList) Set(key string, val goja.Value) bool {
	if key != "value" {
		return false
	}
	cl.node.SetClasses(strings.Fields(val.String()))
	return true
}

func (cl *classList) Has(key string) bool {
	for _, k := range classListKeys {
		if k == key {
			return true
		}
	}
	i, err := strconv.Atoi(key)
	return err == nil && i >= 0
}

func (cl *classList) Delete(key string) bool { return false }

func (cl *classList) Keys() []string { return classListKeys }
