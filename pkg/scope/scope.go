// Package scope defines the taxonomy used to classify node types and
// attribute handlers. A Scope is a bitmask: the low two bits select the
// kind (attribute or blot), the next two select the level (inline or block).
package scope

import (
	"strconv"
	"strings"
)

type Scope int

const (
	Type      Scope = 3  // 0011 lower two bits
	Level     Scope = 12 // 1100 higher two bits
	Attribute Scope = 13 // 1101
	Blot      Scope = 14 // 1110
	Inline    Scope = 7  // 0111
	Block     Scope = 11 // 1011

	BlockBlot       = Block & Blot      // 1010
	InlineBlot      = Inline & Blot     // 0110
	BlockAttribute  = Block & Attribute // 1001
	InlineAttribute = Inline & Attribute

	Any = Type | Level
)

// Matches reports whether a query scope q accepts a type declared with
// scope s: both the level bits and the kind bits must overlap.
func (q Scope) Matches(s Scope) bool {
	return q&Level&s != 0 && q&Type&s != 0
}

// IsAttribute reports whether s carries only the attribute kind bit.
func (s Scope) IsAttribute() bool {
	return s&Type == Attribute&Type
}

func (s Scope) String() string {
	switch s {
	case Any:
		return "any"
	case Blot:
		return "blot"
	case Attribute:
		return "attribute"
	case BlockBlot:
		return "block-blot"
	case InlineBlot:
		return "inline-blot"
	case BlockAttribute:
		return "block-attribute"
	case InlineAttribute:
		return "inline-attribute"
	case Block:
		return "block"
	case Inline:
		return "inline"
	}
	return "scope(" + strconv.Itoa(int(s)) + ")"
}

// Parse maps the names produced by String back to a Scope.
func Parse(name string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "any":
		return Any, true
	case "blot":
		return Blot, true
	case "attribute":
		return Attribute, true
	case "block-blot":
		return BlockBlot, true
	case "inline-blot":
		return InlineBlot, true
	case "block-attribute":
		return BlockAttribute, true
	case "inline-attribute":
		return InlineAttribute, true
	case "block":
		return Block, true
	case "inline":
		return Inline, true
	}
	return 0, false
}
