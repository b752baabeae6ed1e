package ir

import (
	"github.com/tern-lang/tern/internal/source"
	"github.com/tern-lang/tern/internal/types"
)

// TypeIndex aliases the registry handle so payloads and signatures in
// this package read uniformly.
type TypeIndex = types.TypeIndex

// Node is a single IR operation: a tagged payload, a result type handle,
// the source span it came from, and the block holding it. Nodes are
// value-like: once emitted they are addressed by NodeIndex and never
// move.
type Node struct {
	Type  TypeIndex
	Span  source.Span
	Block BlockIndex // NullBlock until emitted
	Data  Data
}

// IsTerminator reports whether the node ends a basic block (ret, jump,
// branch).
func (n *Node) IsTerminator() bool { return n.Data.Kind().IsTerminator() }

// HasSideEffects reports whether the node writes memory, transfers
// control, or mutates a container.
func (n *Node) HasSideEffects() bool { return n.Data.Kind().HasSideEffects() }

// IsConstant reports whether the node is one of the constant variants.
func (n *Node) IsConstant() bool { return n.Data.Kind().IsConstant() }
