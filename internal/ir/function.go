package ir

import (
	"github.com/tern-lang/tern/internal/source"
)

// Function is a built function. All slices are owned by the function and
// immutable after Build; consumers read through the accessors and must
// not mutate or reorder.
type Function struct {
	Name       string
	Type       TypeIndex // function type handle
	ReturnType TypeIndex
	Span       source.Span

	Params []LocalIdx // locals with IsParam, in declaration order
	Locals []Local
	Blocks []Block
	Nodes  []Node

	Entry     BlockIndex // always 0
	FrameSize int64      // bytes, 16-aligned

	StringLiterals []string
}

// Node returns the node for a handle, or nil when out of range.
func (f *Function) Node(idx NodeIndex) *Node {
	if idx.IsNull() || int(idx) >= len(f.Nodes) {
		return nil
	}
	return &f.Nodes[idx]
}

// Block returns the block for a handle, or nil when out of range.
func (f *Function) Block(idx BlockIndex) *Block {
	if idx.IsNull() || int(idx) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[idx]
}

// Local returns the local for a handle, or nil when out of range.
func (f *Function) Local(idx LocalIdx) *Local {
	if idx.IsNull() || int(idx) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[idx]
}

// StringLiteral returns the literal for a handle, or "" when out of
// range.
func (f *Function) StringLiteral(idx StringIdx) string {
	if idx.IsNull() || int(idx) >= len(f.StringLiterals) {
		return ""
	}
	return f.StringLiterals[idx]
}
