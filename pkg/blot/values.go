package blot

import (
	"fmt"
	"reflect"
	"strconv"
)

// truthy treats nil, false, zero numbers and "" as "no format".
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// stringValue renders a format value for the surface. true renders as "".
func stringValue(v any) string {
	switch x := v.(type) {
	case nil, bool:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func sameFormats(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !sameValue(v, w) {
			return false
		}
	}
	return true
}
