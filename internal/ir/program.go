package ir

import (
	"github.com/tern-lang/tern/internal/source"
	"github.com/tern-lang/tern/internal/types"
)

// IR is a built program: functions, globals and struct registrations,
// plus the shared (read-only) type registry. It exclusively owns its
// functions and their buffers.
type IR struct {
	Funcs   []Function
	Globals []Global
	Structs []StructDef
	Types   *types.Registry
}

// GetFunc finds a function by name, nil if absent. Linear scan; function
// counts per unit are small.
func (ir *IR) GetFunc(name string) *Function {
	for i := range ir.Funcs {
		if ir.Funcs[i].Name == name {
			return &ir.Funcs[i]
		}
	}
	return nil
}

// GetGlobal finds a global by name, nil if absent.
func (ir *IR) GetGlobal(name string) *Global {
	for i := range ir.Globals {
		if ir.Globals[i].Name == name {
			return &ir.Globals[i]
		}
	}
	return nil
}

// ProgramBuilder accumulates built functions, globals and structs, and
// tracks the function currently under construction.
type ProgramBuilder struct {
	reg *types.Registry

	cur     *FunctionBuilder
	funcs   []Function
	globals []Global
	structs []StructDef
}

// NewProgramBuilder creates a builder over a shared type registry.
func NewProgramBuilder(reg *types.Registry) *ProgramBuilder {
	return &ProgramBuilder{reg: reg}
}

// StartFunc opens a new function. An in-progress function, if any, is
// dropped.
func (p *ProgramBuilder) StartFunc(name string, typ, returnType TypeIndex, span source.Span) *FunctionBuilder {
	p.cur = NewFunctionBuilder(p.reg, name, typ, returnType, span)
	return p.cur
}

// Func returns the function currently under construction, nil if none.
func (p *ProgramBuilder) Func() *FunctionBuilder { return p.cur }

// EndFunc builds the current function and appends it to the program.
func (p *ProgramBuilder) EndFunc() {
	if p.cur == nil {
		return
	}
	p.funcs = append(p.funcs, p.cur.Build())
	p.cur = nil
}

// AddGlobal appends a module-level variable.
func (p *ProgramBuilder) AddGlobal(g Global) GlobalIdx {
	idx := GlobalIdx(len(p.globals))
	p.globals = append(p.globals, g)
	return idx
}

// AddStruct appends a struct registration.
func (p *ProgramBuilder) AddStruct(s StructDef) {
	p.structs = append(p.structs, s)
}

// GetIR transfers the accumulated program into an IR value and empties
// the builder. Any in-progress function is dropped.
func (p *ProgramBuilder) GetIR() IR {
	out := IR{
		Funcs:   p.funcs,
		Globals: p.globals,
		Structs: p.structs,
		Types:   p.reg,
	}
	p.cur = nil
	p.funcs = nil
	p.globals = nil
	p.structs = nil
	return out
}
