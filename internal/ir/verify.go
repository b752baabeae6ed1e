package ir

import (
	"fmt"
	"sort"

	"github.com/tern-lang/tern/internal/diag"
	"github.com/tern-lang/tern/internal/source"
	"github.com/tern-lang/tern/internal/types"
)

// Verify checks a built function against the structural invariants the
// builder deliberately does not enforce: node/block cross-references,
// pool-order def-before-use, terminator discipline, CFG edge
// consistency, reserved result types, and the frame layout contract.
// Construction is trusted; this pass is where malformed emission is
// caught.
func Verify(fn *Function, reg *types.Registry) []diag.Diagnostic {
	v := &verifier{fn: fn, reg: reg}
	v.checkEntry()
	v.checkNodes()
	v.checkBlocks()
	v.checkFrame()
	return v.diags
}

// VerifyIR verifies every function in a program.
func VerifyIR(ir *IR) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for i := range ir.Funcs {
		diags = append(diags, Verify(&ir.Funcs[i], ir.Types)...)
	}
	return diags
}

type verifier struct {
	fn    *Function
	reg   *types.Registry
	diags []diag.Diagnostic
}

func (v *verifier) errf(code diag.Code, span source.Span, format string, args ...any) {
	v.diags = append(v.diags, diag.Diagnostic{
		Stage:    diag.StageVerifier,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf("%s: %s", v.fn.Name, fmt.Sprintf(format, args...)),
		Span:     span,
	})
}

func (v *verifier) checkEntry() {
	if len(v.fn.Blocks) == 0 {
		v.errf(diag.CodeIRBadBlock, v.fn.Span, "function has no blocks")
		return
	}
	if v.fn.Entry != 0 {
		v.errf(diag.CodeIRBadBlock, v.fn.Span, "entry block is %d, want 0", v.fn.Entry)
	}
}

func (v *verifier) checkNodes() {
	for i := range v.fn.Nodes {
		n := &v.fn.Nodes[i]
		idx := NodeIndex(i)

		// Owning-block consistency: the handle must appear in the block
		// it claims to live in.
		if n.Block.IsNull() || int(n.Block) >= len(v.fn.Blocks) {
			v.errf(diag.CodeIRNodeBlockMismatch, n.Span, "node %d has invalid block %d", idx, n.Block)
		} else {
			found := false
			for _, h := range v.fn.Blocks[n.Block].Nodes {
				if h == idx {
					found = true
					break
				}
			}
			if !found {
				v.errf(diag.CodeIRNodeBlockMismatch, n.Span, "node %d missing from block %d node list", idx, n.Block)
			}
		}

		for _, ref := range nodeRefs(n.Data) {
			if ref >= idx {
				v.errf(diag.CodeIRUseBeforeDef, n.Span, "node %d references node %d emitted at or after it", idx, ref)
			}
		}
		for _, ref := range localRefs(n.Data) {
			if int(ref) >= len(v.fn.Locals) {
				v.errf(diag.CodeIRBadLocal, n.Span, "node %d references local %d of %d", idx, ref, len(v.fn.Locals))
			}
		}
		for _, ref := range blockRefs(n.Data) {
			if int(ref) >= len(v.fn.Blocks) {
				v.errf(diag.CodeIRBadBlock, n.Span, "node %d references block %d of %d", idx, ref, len(v.fn.Blocks))
			}
		}
		if cs, ok := n.Data.(ConstSlice); ok {
			if int(cs.Str) >= len(v.fn.StringLiterals) {
				v.errf(diag.CodeIRBadString, n.Span, "node %d references string literal %d of %d", idx, cs.Str, len(v.fn.StringLiterals))
			}
			if n.Type != v.reg.String() {
				v.errf(diag.CodeIRBadResultType, n.Span, "const_slice node %d has result type %d, want string", idx, n.Type)
			}
		}

		// Reserved result types.
		switch d := n.Data.(type) {
		case ConstBool:
			if n.Type != v.reg.Bool() {
				v.errf(diag.CodeIRBadResultType, n.Span, "const_bool node %d has result type %d, want bool", idx, n.Type)
			}
		case Binary:
			if d.Op.IsComparison() && n.Type != v.reg.Bool() {
				v.errf(diag.CodeIRBadResultType, n.Span, "comparison node %d has result type %d, want bool", idx, n.Type)
			}
		}
	}
}

func (v *verifier) checkBlocks() {
	for bi := range v.fn.Blocks {
		blk := &v.fn.Blocks[bi]
		idx := BlockIndex(bi)

		// Terminator discipline: exactly one, and it is last.
		termCount := 0
		lastIsTerm := false
		for pos, h := range blk.Nodes {
			if int(h) >= len(v.fn.Nodes) {
				v.errf(diag.CodeIRBadBlock, v.fn.Span, "block %d lists node %d of %d", idx, h, len(v.fn.Nodes))
				continue
			}
			n := &v.fn.Nodes[h]
			if n.Block != idx {
				v.errf(diag.CodeIRNodeBlockMismatch, n.Span, "block %d holds node %d owned by block %d", idx, h, n.Block)
			}
			if n.IsTerminator() {
				termCount++
				lastIsTerm = pos == len(blk.Nodes)-1
			}
		}
		span := v.fn.Span
		if len(blk.Nodes) > 0 {
			if last := blk.Nodes[len(blk.Nodes)-1]; int(last) < len(v.fn.Nodes) {
				span = v.fn.Nodes[last].Span
			}
		}
		switch {
		case termCount == 0:
			v.errf(diag.CodeIRBlockMissingTerminator, span, "block %d has no terminator", idx)
		case termCount > 1:
			v.errf(diag.CodeIRBlockMultipleTerminators, span, "block %d has %d terminators", idx, termCount)
		case !lastIsTerm:
			v.errf(diag.CodeIRBlockMultipleTerminators, span, "block %d terminator is not its last node", idx)
		}

		// Successor sets must equal the terminator's targets; predecessor
		// lists must mirror them.
		want := v.terminatorTargets(blk)
		if !sameBlockSet(blk.Succs, want) {
			v.errf(diag.CodeIRBadSuccessors, span, "block %d successors %v, want %v", idx, blk.Succs, want)
		}
		for _, s := range blk.Succs {
			if int(s) >= len(v.fn.Blocks) {
				continue
			}
			if !containsBlock(v.fn.Blocks[s].Preds, idx) {
				v.errf(diag.CodeIRBadSuccessors, span, "block %d missing from predecessors of block %d", idx, s)
			}
		}
		for _, p := range blk.Preds {
			if int(p) >= len(v.fn.Blocks) {
				v.errf(diag.CodeIRBadBlock, span, "block %d lists predecessor %d of %d", idx, p, len(v.fn.Blocks))
				continue
			}
			if !containsBlock(v.fn.Blocks[p].Succs, idx) {
				v.errf(diag.CodeIRBadSuccessors, span, "block %d lists predecessor %d without matching successor edge", idx, p)
			}
		}
	}
}

// terminatorTargets derives the successor set the block's terminators
// imply.
func (v *verifier) terminatorTargets(blk *Block) []BlockIndex {
	var targets []BlockIndex
	for _, h := range blk.Nodes {
		if int(h) >= len(v.fn.Nodes) {
			continue
		}
		switch d := v.fn.Nodes[h].Data.(type) {
		case Jump:
			targets = appendBlockSet(targets, d.Target)
		case Branch:
			targets = appendBlockSet(targets, d.Then)
			targets = appendBlockSet(targets, d.Else)
		}
	}
	return targets
}

func (v *verifier) checkFrame() {
	type interval struct{ lo, hi int64 }
	var used []interval
	var maxDepth int64

	for i := range v.fn.Locals {
		l := &v.fn.Locals[i]
		if l.Align > 0 && l.Offset%l.Align != 0 {
			v.errf(diag.CodeIRBadFrame, v.fn.Span, "local %d offset %d not aligned to %d", i, l.Offset, l.Align)
		}
		if l.Offset+l.Size > 0 {
			v.errf(diag.CodeIRBadFrame, v.fn.Span, "local %d interval [%d,%d) extends above the frame pointer", i, l.Offset, l.Offset+l.Size)
		}
		if l.Size > 0 {
			used = append(used, interval{l.Offset, l.Offset + l.Size})
		}
		if -l.Offset > maxDepth {
			maxDepth = -l.Offset
		}
	}

	sort.Slice(used, func(a, b int) bool { return used[a].lo < used[b].lo })
	for i := 1; i < len(used); i++ {
		if used[i].lo < used[i-1].hi {
			v.errf(diag.CodeIRBadFrame, v.fn.Span, "local intervals [%d,%d) and [%d,%d) overlap",
				used[i-1].lo, used[i-1].hi, used[i].lo, used[i].hi)
		}
	}

	if v.fn.FrameSize%frameAlign != 0 {
		v.errf(diag.CodeIRBadFrame, v.fn.Span, "frame size %d not a multiple of %d", v.fn.FrameSize, frameAlign)
	}
	if v.fn.FrameSize < maxDepth+frameReservedBytes {
		v.errf(diag.CodeIRBadFrame, v.fn.Span, "frame size %d smaller than locals depth %d plus reserved %d",
			v.fn.FrameSize, maxDepth, frameReservedBytes)
	}
}

// nodeRefs returns every non-null NodeIndex the payload references.
func nodeRefs(d Data) []NodeIndex {
	var refs []NodeIndex
	add := func(idxs ...NodeIndex) {
		for _, i := range idxs {
			if !i.IsNull() {
				refs = append(refs, i)
			}
		}
	}
	switch d := d.(type) {
	case StoreLocal:
		add(d.Value)
	case Binary:
		add(d.Left, d.Right)
	case Unary:
		add(d.Operand)
	case StoreLocalField:
		add(d.Value)
	case StoreField:
		add(d.Base, d.Value)
	case FieldValue:
		add(d.Base)
	case IndexLocal:
		add(d.Index)
	case IndexValue:
		add(d.Base, d.Index)
	case StoreIndexLocal:
		add(d.Index, d.Value)
	case StoreIndexValue:
		add(d.Base, d.Index, d.Value)
	case SliceLocal:
		add(d.Start, d.End)
	case SliceValue:
		add(d.Base, d.Start, d.End)
	case PtrStore:
		add(d.Value)
	case PtrFieldStore:
		add(d.Value)
	case PtrLoadValue:
		add(d.Ptr)
	case PtrStoreValue:
		add(d.Ptr, d.Value)
	case AddrOffset:
		add(d.Base)
	case AddrIndex:
		add(d.Base, d.Index)
	case Call:
		add(d.Args...)
	case Ret:
		add(d.Value)
	case Branch:
		add(d.Cond)
	case Phi:
		for _, s := range d.Sources {
			add(s.Value)
		}
	case Select:
		add(d.Cond, d.Then, d.Else)
	case Convert:
		add(d.Operand)
	case ListPush:
		add(d.List, d.Value)
	case ListGet:
		add(d.List, d.Index)
	case ListSet:
		add(d.List, d.Index, d.Value)
	case ListLen:
		add(d.List)
	case ListFree:
		add(d.List)
	case MapSet:
		add(d.Map, d.Key, d.Value)
	case MapGet:
		add(d.Map, d.Key)
	case MapHas:
		add(d.Map, d.Key)
	case MapFree:
		add(d.Map)
	case StrConcat:
		add(d.Left, d.Right)
	case UnionInit:
		add(d.Payload)
	case UnionTag:
		add(d.Value)
	case UnionPayload:
		add(d.Value)
	}
	return refs
}

// localRefs returns every LocalIdx the payload references.
func localRefs(d Data) []LocalIdx {
	switch d := d.(type) {
	case LocalRef:
		return []LocalIdx{d.Local}
	case AddrLocal:
		return []LocalIdx{d.Local}
	case LoadLocal:
		return []LocalIdx{d.Local}
	case StoreLocal:
		return []LocalIdx{d.Local}
	case FieldLocal:
		return []LocalIdx{d.Local}
	case StoreLocalField:
		return []LocalIdx{d.Local}
	case IndexLocal:
		return []LocalIdx{d.Local}
	case StoreIndexLocal:
		return []LocalIdx{d.Local}
	case SliceLocal:
		return []LocalIdx{d.Local}
	case PtrLoad:
		return []LocalIdx{d.Local}
	case PtrStore:
		return []LocalIdx{d.Local}
	case PtrField:
		return []LocalIdx{d.Local}
	case PtrFieldStore:
		return []LocalIdx{d.Local}
	}
	return nil
}

// blockRefs returns every BlockIndex the payload references.
func blockRefs(d Data) []BlockIndex {
	switch d := d.(type) {
	case Jump:
		return []BlockIndex{d.Target}
	case Branch:
		return []BlockIndex{d.Then, d.Else}
	case Phi:
		var refs []BlockIndex
		for _, s := range d.Sources {
			refs = append(refs, s.Block)
		}
		return refs
	}
	return nil
}

func appendBlockSet(set []BlockIndex, b BlockIndex) []BlockIndex {
	for _, s := range set {
		if s == b {
			return set
		}
	}
	return append(set, b)
}

func containsBlock(set []BlockIndex, b BlockIndex) bool {
	for _, s := range set {
		if s == b {
			return true
		}
	}
	return false
}

func sameBlockSet(a, b []BlockIndex) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !containsBlock(b, x) {
			return false
		}
	}
	return true
}
