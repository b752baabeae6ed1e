package ir

import (
	"testing"

	"github.com/tern-lang/tern/internal/types"
)

func TestProgramBuilder_BuildAndLookup(t *testing.T) {
	reg := types.New()
	p := NewProgramBuilder(reg)

	fb := p.StartFunc("main", reg.Func(nil, reg.Int()), reg.Int(), testSpan(0))
	n0 := fb.EmitConstInt(42, reg.Int(), testSpan(1))
	fb.EmitRet(n0, testSpan(2))
	p.EndFunc()

	p.AddGlobal(Global{Name: "version", Type: reg.Int(), Const: true, Span: testSpan(3), Size: 8})
	p.AddStruct(StructDef{Name: "Point", Type: reg.Struct("Point", []types.Field{
		{Name: "x", Type: reg.Int()},
		{Name: "y", Type: reg.Int()},
	}), Span: testSpan(4)})

	prog := p.GetIR()

	if prog.Types != reg {
		t.Error("IR should share the registry")
	}
	if fn := prog.GetFunc("main"); fn == nil {
		t.Error("GetFunc(main) = nil")
	} else if fn.Name != "main" {
		t.Errorf("GetFunc(main).Name = %q", fn.Name)
	}
	if prog.GetFunc("absent") != nil {
		t.Error("GetFunc(absent) should be nil")
	}
	if g := prog.GetGlobal("version"); g == nil || !g.Const {
		t.Errorf("GetGlobal(version) = %v, want const global", g)
	}
	if prog.GetGlobal("absent") != nil {
		t.Error("GetGlobal(absent) should be nil")
	}
	if len(prog.Structs) != 1 || prog.Structs[0].Name != "Point" {
		t.Errorf("structs = %v, want one Point", prog.Structs)
	}
}

func TestProgramBuilder_StartFuncDropsInProgress(t *testing.T) {
	reg := types.New()
	p := NewProgramBuilder(reg)

	first := p.StartFunc("first", reg.Func(nil, reg.Void()), reg.Void(), testSpan(0))
	first.EmitRet(NullNode, testSpan(1))

	// Opening a second function abandons the first; only the second
	// survives.
	second := p.StartFunc("second", reg.Func(nil, reg.Void()), reg.Void(), testSpan(2))
	if p.Func() != second {
		t.Error("Func() should return the most recently started builder")
	}
	second.EmitRet(NullNode, testSpan(3))
	p.EndFunc()

	prog := p.GetIR()
	if len(prog.Funcs) != 1 {
		t.Fatalf("funcs = %d, want 1", len(prog.Funcs))
	}
	if prog.Funcs[0].Name != "second" {
		t.Errorf("surviving function = %q, want second", prog.Funcs[0].Name)
	}
}

func TestProgramBuilder_GetIREmptiesBuilder(t *testing.T) {
	reg := types.New()
	p := NewProgramBuilder(reg)

	fb := p.StartFunc("only", reg.Func(nil, reg.Void()), reg.Void(), testSpan(0))
	fb.EmitRet(NullNode, testSpan(1))
	p.EndFunc()

	first := p.GetIR()
	if len(first.Funcs) != 1 {
		t.Fatalf("first GetIR funcs = %d, want 1", len(first.Funcs))
	}

	second := p.GetIR()
	if len(second.Funcs) != 0 || len(second.Globals) != 0 || len(second.Structs) != 0 {
		t.Error("second GetIR should be empty")
	}
	if p.Func() != nil {
		t.Error("GetIR should drop any in-progress function")
	}
}

func TestProgramBuilder_EndFuncWithoutStart(t *testing.T) {
	p := NewProgramBuilder(types.New())
	p.EndFunc() // no-op

	prog := p.GetIR()
	if len(prog.Funcs) != 0 {
		t.Errorf("funcs = %d, want 0", len(prog.Funcs))
	}
}
