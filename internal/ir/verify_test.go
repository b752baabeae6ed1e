package ir

import (
	"testing"

	"github.com/tern-lang/tern/internal/diag"
	"github.com/tern-lang/tern/internal/types"
)

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestVerify_MissingTerminator(t *testing.T) {
	b, reg := newTestBuilder(t, "open")
	b.EmitConstInt(1, reg.Int(), testSpan(1))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBlockMissingTerminator) {
		t.Errorf("expected IR_BLOCK_MISSING_TERMINATOR, got %v", diags)
	}
}

func TestVerify_MultipleTerminators(t *testing.T) {
	b, reg := newTestBuilder(t, "twice")
	n0 := b.EmitConstInt(1, reg.Int(), testSpan(1))
	b.EmitRet(n0, testSpan(2))
	// The builder deliberately does not police this.
	b.EmitRet(n0, testSpan(3))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBlockMultipleTerminators) {
		t.Errorf("expected IR_BLOCK_MULTIPLE_TERMINATORS, got %v", diags)
	}
}

func TestVerify_UseBeforeDef(t *testing.T) {
	b, reg := newTestBuilder(t, "loop")
	// A binary node referencing itself is a forward reference.
	n0 := b.EmitBinary(BinAdd, 0, 1, reg.Int(), testSpan(1))
	b.EmitRet(n0, testSpan(2))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRUseBeforeDef) {
		t.Errorf("expected IR_USE_BEFORE_DEF, got %v", diags)
	}
}

func TestVerify_BadLocal(t *testing.T) {
	b, reg := newTestBuilder(t, "dangling")
	n0 := b.EmitLoadLocal(5, reg.Int(), testSpan(1))
	b.EmitRet(n0, testSpan(2))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadLocal) {
		t.Errorf("expected IR_BAD_LOCAL, got %v", diags)
	}
}

func TestVerify_BadBlockTarget(t *testing.T) {
	b, reg := newTestBuilder(t, "nowhere")
	b.EmitJump(9, testSpan(1))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadBlock) {
		t.Errorf("expected IR_BAD_BLOCK, got %v", diags)
	}
}

func TestVerify_BadStringLiteral(t *testing.T) {
	b, reg := newTestBuilder(t, "nostring")
	n0 := b.EmitConstSlice(2, testSpan(1)) // no literals interned
	b.EmitRet(n0, testSpan(2))
	fn := b.Build()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadString) {
		t.Errorf("expected IR_BAD_STRING, got %v", diags)
	}
}

func TestVerify_BadResultType(t *testing.T) {
	b, reg := newTestBuilder(t, "badtype")
	n0 := b.EmitConstBool(true, testSpan(1))
	b.EmitRet(n0, testSpan(2))
	fn := b.Build()

	// Corrupt the reserved result type after the fact.
	fn.Nodes[n0].Type = reg.Int()

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadResultType) {
		t.Errorf("expected IR_BAD_RESULT_TYPE, got %v", diags)
	}
}

func TestVerify_SuccessorMismatch(t *testing.T) {
	b, reg := newTestBuilder(t, "edges")
	b1 := b.NewBlock("next")
	b.EmitJump(b1, testSpan(1))
	b.SetBlock(b1)
	b.EmitRet(NullNode, testSpan(2))
	fn := b.Build()

	// Corrupt the recorded CFG: drop the edge the terminator implies.
	fn.Blocks[0].Succs = nil

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadSuccessors) {
		t.Errorf("expected IR_BAD_SUCCESSORS, got %v", diags)
	}
}

func TestVerify_FrameCorruption(t *testing.T) {
	b, reg := newTestBuilder(t, "frame")
	b.AddLocal("x", reg.Int(), true)
	b.EmitRet(NullNode, testSpan(1))
	fn := b.Build()

	fn.Locals[0].Offset = -3 // unaligned, and [-3,5) extends above the frame pointer

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRBadFrame) {
		t.Errorf("expected IR_BAD_FRAME, got %v", diags)
	}
}

func TestVerify_NodeBlockMismatch(t *testing.T) {
	b, reg := newTestBuilder(t, "stolen")
	n0 := b.EmitConstInt(1, reg.Int(), testSpan(1))
	b.EmitRet(n0, testSpan(2))
	fn := b.Build()

	fn.Nodes[n0].Block = NullBlock

	diags := Verify(&fn, reg)
	if !hasCode(diags, diag.CodeIRNodeBlockMismatch) {
		t.Errorf("expected IR_NODE_BLOCK_MISMATCH, got %v", diags)
	}
}

func TestVerifyIR_CoversEveryFunction(t *testing.T) {
	reg := types.New()
	p := NewProgramBuilder(reg)

	fb := p.StartFunc("ok", reg.Func(nil, reg.Int()), reg.Int(), testSpan(0))
	n0 := fb.EmitConstInt(1, reg.Int(), testSpan(1))
	fb.EmitRet(n0, testSpan(2))
	p.EndFunc()

	fb = p.StartFunc("broken", reg.Func(nil, reg.Int()), reg.Int(), testSpan(3))
	fb.EmitConstInt(2, reg.Int(), testSpan(4)) // never terminated
	p.EndFunc()

	prog := p.GetIR()
	diags := VerifyIR(&prog)
	if !hasCode(diags, diag.CodeIRBlockMissingTerminator) {
		t.Errorf("expected the broken function to be reported, got %v", diags)
	}
	for _, d := range diags {
		if d.Stage != diag.StageVerifier {
			t.Errorf("diagnostic stage = %s, want verifier", d.Stage)
		}
	}
}
