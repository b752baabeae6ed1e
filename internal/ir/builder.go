package ir

import (
	"github.com/tern-lang/tern/internal/source"
	"github.com/tern-lang/tern/internal/types"
)

// Stack frame constants. The reserved region holds the frame/link
// register pair plus callee-saved registers; the total frame is rounded
// to 16 bytes. These values are part of the code generation contract.
const (
	frameReservedBytes = 96
	frameAlign         = 16
)

// defaultLocalSize is the size and alignment of locals declared without
// an explicit size.
const defaultLocalSize = 8

// FunctionBuilder incrementally constructs a function. It owns its
// growing buffers until Build transfers them into the immutable
// Function. Emit helpers perform no semantic validation; malformed
// graphs are the verifier's concern.
type FunctionBuilder struct {
	reg *types.Registry

	name       string
	typ        TypeIndex
	returnType TypeIndex
	span       source.Span

	locals   []Local
	names    map[string]LocalIdx
	blocks   []Block
	nodes    []Node
	literals []string

	cur   BlockIndex
	built bool
}

// NewFunctionBuilder opens a function. Block 0, empty and unlabeled, is
// created as the entry block and made current.
func NewFunctionBuilder(reg *types.Registry, name string, typ, returnType TypeIndex, span source.Span) *FunctionBuilder {
	b := &FunctionBuilder{
		reg:        reg,
		name:       name,
		typ:        typ,
		returnType: returnType,
		span:       span,
		names:      make(map[string]LocalIdx),
	}
	b.blocks = append(b.blocks, Block{})
	b.cur = 0
	return b
}

func (b *FunctionBuilder) checkLive() {
	if b.built {
		panic("ir: FunctionBuilder used after Build")
	}
}

// AddLocal declares a mutable or immutable local with the default
// 8-byte size and alignment.
func (b *FunctionBuilder) AddLocal(name string, typ TypeIndex, mutable bool) LocalIdx {
	return b.AddLocalWithSize(name, typ, mutable, defaultLocalSize)
}

// AddLocalWithSize declares a local with an explicit size. A duplicate
// name rebinds the lookup entry; the earlier slot stays allocated.
func (b *FunctionBuilder) AddLocalWithSize(name string, typ TypeIndex, mutable bool, size int64) LocalIdx {
	b.checkLive()
	idx := LocalIdx(len(b.locals))
	b.locals = append(b.locals, Local{
		Name:    name,
		Type:    typ,
		Mutable: mutable,
		Param:   NullParam,
		Size:    size,
		Align:   localAlign(size),
		Offset:  0,
	})
	b.names[name] = idx
	return idx
}

// AddParam declares a parameter. Parameters are immutable and their
// parameter index equals their local index at insertion time.
func (b *FunctionBuilder) AddParam(name string, typ TypeIndex, size int64) LocalIdx {
	b.checkLive()
	idx := LocalIdx(len(b.locals))
	b.locals = append(b.locals, Local{
		Name:    name,
		Type:    typ,
		IsParam: true,
		Param:   ParamIdx(idx),
		Size:    size,
		Align:   localAlign(size),
		Offset:  0,
	})
	b.names[name] = idx
	return idx
}

// localAlign derives a local's alignment from its size: the largest
// power of two that is at most 8 and at most the size itself.
func localAlign(size int64) int64 {
	align := int64(8)
	for align > 1 && align > size {
		align >>= 1
	}
	return align
}

// LookupLocal resolves a name to its most recent binding.
func (b *FunctionBuilder) LookupLocal(name string) (LocalIdx, bool) {
	idx, ok := b.names[name]
	return idx, ok
}

// NewBlock appends a block and returns its handle. The new block does
// not become current.
func (b *FunctionBuilder) NewBlock(label string) BlockIndex {
	b.checkLive()
	idx := BlockIndex(len(b.blocks))
	b.blocks = append(b.blocks, Block{Label: label})
	return idx
}

// SetBlock makes a block current: subsequent emits append to it.
func (b *FunctionBuilder) SetBlock(idx BlockIndex) {
	b.checkLive()
	b.cur = idx
}

// CurrentBlock returns the block emits currently append to.
func (b *FunctionBuilder) CurrentBlock() BlockIndex { return b.cur }

// NeedsTerminator reports whether the current block is still open: it is
// empty or its last node is not a terminator.
func (b *FunctionBuilder) NeedsTerminator() bool {
	blk := &b.blocks[b.cur]
	if len(blk.Nodes) == 0 {
		return true
	}
	last := blk.Nodes[len(blk.Nodes)-1]
	return !b.nodes[last].IsTerminator()
}

// AddStringLiteral interns a string literal and returns its handle.
func (b *FunctionBuilder) AddStringLiteral(s string) StringIdx {
	b.checkLive()
	idx := StringIdx(len(b.literals))
	b.literals = append(b.literals, s)
	return idx
}

// emit appends a node to the pool and to the current block. Terminator
// edges are recorded on the CFG as they are emitted.
func (b *FunctionBuilder) emit(data Data, typ TypeIndex, span source.Span) NodeIndex {
	b.checkLive()
	idx := NodeIndex(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		Type:  typ,
		Span:  span,
		Block: b.cur,
		Data:  data,
	})
	blk := &b.blocks[b.cur]
	blk.Nodes = append(blk.Nodes, idx)

	switch d := data.(type) {
	case Jump:
		b.addEdge(b.cur, d.Target)
	case Branch:
		b.addEdge(b.cur, d.Then)
		b.addEdge(b.cur, d.Else)
	}
	return idx
}

// addEdge records from→to once, keeping Succs/Preds sets.
func (b *FunctionBuilder) addEdge(from, to BlockIndex) {
	src := &b.blocks[from]
	for _, s := range src.Succs {
		if s == to {
			return
		}
	}
	src.Succs = append(src.Succs, to)
	if int(to) < len(b.blocks) {
		dst := &b.blocks[to]
		dst.Preds = append(dst.Preds, from)
	}
}

// Constants

func (b *FunctionBuilder) EmitConstInt(value int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ConstInt{Value: value}, typ, span)
}

func (b *FunctionBuilder) EmitConstFloat(value float64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ConstFloat{Value: value}, typ, span)
}

// EmitConstBool always produces the registry's boolean type.
func (b *FunctionBuilder) EmitConstBool(value bool, span source.Span) NodeIndex {
	return b.emit(ConstBool{Value: value}, b.reg.Bool(), span)
}

func (b *FunctionBuilder) EmitConstNull(typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ConstNull{}, typ, span)
}

// EmitConstSlice always produces the registry's string type.
func (b *FunctionBuilder) EmitConstSlice(str StringIdx, span source.Span) NodeIndex {
	return b.emit(ConstSlice{Str: str}, b.reg.String(), span)
}

// Variable access

func (b *FunctionBuilder) EmitLocalRef(local LocalIdx, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(LocalRef{Local: local}, typ, span)
}

func (b *FunctionBuilder) EmitGlobalRef(global GlobalIdx, name string, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(GlobalRef{Global: global, Name: name}, typ, span)
}

func (b *FunctionBuilder) EmitAddrLocal(local LocalIdx, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(AddrLocal{Local: local}, typ, span)
}

func (b *FunctionBuilder) EmitLoadLocal(local LocalIdx, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(LoadLocal{Local: local}, typ, span)
}

func (b *FunctionBuilder) EmitStoreLocal(local LocalIdx, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(StoreLocal{Local: local, Value: value}, b.reg.Void(), span)
}

// Binary/unary

// EmitBinary produces typ for arithmetic/logical/bitwise operators;
// comparison operators always produce the registry's boolean type.
func (b *FunctionBuilder) EmitBinary(op BinaryOp, left, right NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	if op.IsComparison() {
		typ = b.reg.Bool()
	}
	return b.emit(Binary{Op: op, Left: left, Right: right}, typ, span)
}

func (b *FunctionBuilder) EmitUnary(op UnaryOp, operand NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(Unary{Op: op, Operand: operand}, typ, span)
}

// Struct access

func (b *FunctionBuilder) EmitFieldLocal(local LocalIdx, fieldIdx uint32, offset int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(FieldLocal{Local: local, FieldIdx: fieldIdx, Offset: offset}, typ, span)
}

func (b *FunctionBuilder) EmitStoreLocalField(local LocalIdx, fieldIdx uint32, offset int64, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(StoreLocalField{Local: local, FieldIdx: fieldIdx, Offset: offset, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitStoreField(base NodeIndex, fieldIdx uint32, offset int64, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(StoreField{Base: base, FieldIdx: fieldIdx, Offset: offset, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitFieldValue(base NodeIndex, fieldIdx uint32, offset int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(FieldValue{Base: base, FieldIdx: fieldIdx, Offset: offset}, typ, span)
}

// Array/slice

func (b *FunctionBuilder) EmitIndexLocal(local LocalIdx, index NodeIndex, elemSize int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(IndexLocal{Local: local, Index: index, ElemSize: elemSize}, typ, span)
}

func (b *FunctionBuilder) EmitIndexValue(base, index NodeIndex, elemSize int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(IndexValue{Base: base, Index: index, ElemSize: elemSize}, typ, span)
}

func (b *FunctionBuilder) EmitStoreIndexLocal(local LocalIdx, index, value NodeIndex, elemSize int64, span source.Span) NodeIndex {
	return b.emit(StoreIndexLocal{Local: local, Index: index, Value: value, ElemSize: elemSize}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitStoreIndexValue(base, index, value NodeIndex, elemSize int64, span source.Span) NodeIndex {
	return b.emit(StoreIndexValue{Base: base, Index: index, Value: value, ElemSize: elemSize}, b.reg.Void(), span)
}

// EmitSliceLocal reslices a local; start and end are NullNode when the
// bound is omitted.
func (b *FunctionBuilder) EmitSliceLocal(local LocalIdx, start, end NodeIndex, elemSize int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(SliceLocal{Local: local, Start: start, End: end, ElemSize: elemSize}, typ, span)
}

func (b *FunctionBuilder) EmitSliceValue(base, start, end NodeIndex, elemSize int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(SliceValue{Base: base, Start: start, End: end, ElemSize: elemSize}, typ, span)
}

// Pointer

func (b *FunctionBuilder) EmitPtrLoad(local LocalIdx, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(PtrLoad{Local: local}, typ, span)
}

func (b *FunctionBuilder) EmitPtrStore(local LocalIdx, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(PtrStore{Local: local, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitPtrField(local LocalIdx, fieldIdx uint32, offset int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(PtrField{Local: local, FieldIdx: fieldIdx, Offset: offset}, typ, span)
}

func (b *FunctionBuilder) EmitPtrFieldStore(local LocalIdx, fieldIdx uint32, offset int64, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(PtrFieldStore{Local: local, FieldIdx: fieldIdx, Offset: offset, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitPtrLoadValue(ptr NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(PtrLoadValue{Ptr: ptr}, typ, span)
}

func (b *FunctionBuilder) EmitPtrStoreValue(ptr, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(PtrStoreValue{Ptr: ptr, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitAddrOffset(base NodeIndex, offset int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(AddrOffset{Base: base, Offset: offset}, typ, span)
}

func (b *FunctionBuilder) EmitAddrIndex(base, index NodeIndex, elemSize int64, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(AddrIndex{Base: base, Index: index, ElemSize: elemSize}, typ, span)
}

// Control flow

// EmitCall copies args so caller storage is free to move or drop.
func (b *FunctionBuilder) EmitCall(name string, args []NodeIndex, isBuiltin bool, typ TypeIndex, span source.Span) NodeIndex {
	owned := make([]NodeIndex, len(args))
	copy(owned, args)
	return b.emit(Call{Name: name, Args: owned, IsBuiltin: isBuiltin}, typ, span)
}

// EmitRet returns from the function; value is NullNode for void.
func (b *FunctionBuilder) EmitRet(value NodeIndex, span source.Span) NodeIndex {
	return b.emit(Ret{Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitJump(target BlockIndex, span source.Span) NodeIndex {
	return b.emit(Jump{Target: target}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitBranch(cond NodeIndex, then, els BlockIndex, span source.Span) NodeIndex {
	return b.emit(Branch{Cond: cond, Then: then, Else: els}, b.reg.Void(), span)
}

// EmitPhi copies sources. Reserved for a future SSA pass.
func (b *FunctionBuilder) EmitPhi(sources []PhiSource, typ TypeIndex, span source.Span) NodeIndex {
	owned := make([]PhiSource, len(sources))
	copy(owned, sources)
	return b.emit(Phi{Sources: owned}, typ, span)
}

func (b *FunctionBuilder) EmitSelect(cond, then, els NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(Select{Cond: cond, Then: then, Else: els}, typ, span)
}

// Conversion

func (b *FunctionBuilder) EmitConvert(operand NodeIndex, from, to TypeIndex, span source.Span) NodeIndex {
	return b.emit(Convert{Operand: operand, From: from, To: to}, to, span)
}

// Containers

func (b *FunctionBuilder) EmitListNew(typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ListNew{}, typ, span)
}

func (b *FunctionBuilder) EmitListPush(list, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(ListPush{List: list, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitListGet(list, index NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ListGet{List: list, Index: index}, typ, span)
}

func (b *FunctionBuilder) EmitListSet(list, index, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(ListSet{List: list, Index: index, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitListLen(list NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(ListLen{List: list}, typ, span)
}

func (b *FunctionBuilder) EmitListFree(list NodeIndex, span source.Span) NodeIndex {
	return b.emit(ListFree{List: list}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitMapNew(typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(MapNew{}, typ, span)
}

func (b *FunctionBuilder) EmitMapSet(m, key, value NodeIndex, span source.Span) NodeIndex {
	return b.emit(MapSet{Map: m, Key: key, Value: value}, b.reg.Void(), span)
}

func (b *FunctionBuilder) EmitMapGet(m, key NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(MapGet{Map: m, Key: key}, typ, span)
}

func (b *FunctionBuilder) EmitMapHas(m, key NodeIndex, span source.Span) NodeIndex {
	return b.emit(MapHas{Map: m, Key: key}, b.reg.Bool(), span)
}

func (b *FunctionBuilder) EmitMapFree(m NodeIndex, span source.Span) NodeIndex {
	return b.emit(MapFree{Map: m}, b.reg.Void(), span)
}

// String

func (b *FunctionBuilder) EmitStrConcat(left, right NodeIndex, span source.Span) NodeIndex {
	return b.emit(StrConcat{Left: left, Right: right}, b.reg.String(), span)
}

// Union

// EmitUnionInit constructs a union value; payload is NullNode for unit
// variants.
func (b *FunctionBuilder) EmitUnionInit(variantIdx uint32, payload NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(UnionInit{VariantIdx: variantIdx, Payload: payload}, typ, span)
}

func (b *FunctionBuilder) EmitUnionTag(value NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(UnionTag{Value: value}, typ, span)
}

func (b *FunctionBuilder) EmitUnionPayload(variantIdx uint32, value NodeIndex, typ TypeIndex, span source.Span) NodeIndex {
	return b.emit(UnionPayload{VariantIdx: variantIdx, Value: value}, typ, span)
}

// Misc

func (b *FunctionBuilder) EmitNop(span source.Span) NodeIndex {
	return b.emit(Nop{}, b.reg.Void(), span)
}

// Build finalizes the function: collects the parameter view, lays out
// the stack frame, and transfers ownership of every buffer into the
// returned Function. The builder must not be used afterwards.
func (b *FunctionBuilder) Build() Function {
	b.checkLive()
	b.built = true

	var params []LocalIdx
	for i := range b.locals {
		if b.locals[i].IsParam {
			params = append(params, LocalIdx(i))
		}
	}

	frameSize := layoutFrame(b.locals)

	fn := Function{
		Name:           b.name,
		Type:           b.typ,
		ReturnType:     b.returnType,
		Span:           b.span,
		Params:         params,
		Locals:         b.locals,
		Blocks:         b.blocks,
		Nodes:          b.nodes,
		Entry:          0,
		FrameSize:      frameSize,
		StringLiterals: b.literals,
	}

	b.locals = nil
	b.blocks = nil
	b.nodes = nil
	b.literals = nil
	b.names = nil
	return fn
}

// layoutFrame assigns frame offsets in declaration order. The stack
// grows down: each local sits at -(offset+size) below the frame pointer.
func layoutFrame(locals []Local) int64 {
	var frameOffset int64
	for i := range locals {
		l := &locals[i]
		frameOffset = roundUp(frameOffset, l.Align)
		l.Offset = -(frameOffset + l.Size)
		frameOffset += l.Size
	}
	return roundUp(frameOffset+frameReservedBytes, frameAlign)
}

func roundUp(n, align int64) int64 {
	return (n + align - 1) &^ (align - 1)
}
