package blot

import (
	"parchment/pkg/scope"
)

// Block is a block-level format such as a paragraph or heading.
type Block struct {
	FormatBlot
}

// Format ignores inline formats. Removing this node's own format turns
// it back into a plain block.
func (b *Block) Format(name string, value any) error {
	if def, a := b.reg.Lookup(name, scope.Block); def == nil && a == nil {
		return nil
	}
	if name == b.def.Name && !truthy(value) {
		_, err := b.self.ReplaceWith("block", nil)
		return ignoreIncompatible(err)
	}
	return b.FormatBlot.Format(name, value)
}

// FormatAt applies a block-level format to the whole block.
func (b *Block) FormatAt(index, length int, name string, value any) error {
	if def, a := b.reg.Lookup(name, scope.Block); def != nil || a != nil {
		return b.self.(Formattable).Format(name, value)
	}
	return b.FormatBlot.FormatAt(index, length, name, value)
}

// InsertAt places a non-inline node between the two halves of the block.
func (b *Block) InsertAt(index int, value string, def any) error {
	if def == nil || b.reg.Query(value, scope.Inline) != nil {
		return b.FormatBlot.InsertAt(index, value, def)
	}
	if b.parent == nil {
		return orphan("insert at", b.self)
	}
	parent := b.parent
	after, err := b.self.Split(index, false)
	if err != nil {
		return err
	}
	created, err := b.reg.Create(value, def)
	if err != nil {
		return err
	}
	if err := parent.InsertBefore(created, after); err != nil {
		created.Detach()
		return err
	}
	return nil
}
