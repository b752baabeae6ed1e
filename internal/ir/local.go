package ir

import (
	"github.com/tern-lang/tern/internal/source"
)

// Local is a stack-allocated variable descriptor. Offset is assigned at
// build time; negative offsets sit below the frame pointer.
type Local struct {
	Name    string
	Type    TypeIndex
	Mutable bool
	IsParam bool
	Param   ParamIdx // NullParam for non-parameters
	Size    int64    // bytes
	Align   int64    // bytes, power of two, <= Size and <= 8
	Offset  int64
}

// Global is a module-level variable descriptor, immutable after
// insertion.
type Global struct {
	Name  string
	Type  TypeIndex
	Const bool
	Span  source.Span
	Size  int64
}

// StructDef registers a named struct with the program. Field shape is
// carried by the type registry, not duplicated here.
type StructDef struct {
	Name string
	Type TypeIndex
	Span source.Span
}
