package ir

// The IR is a closed tagged union: every node carries a Data payload
// whose concrete type is one of the variants below. The Kind enumerates
// the variant for fast classification; the payload structs keep
// wrong-field access a compile-time error.

// Kind enumerates the operation variants.
type Kind int

const (
	// Constants
	KindConstInt Kind = iota
	KindConstFloat
	KindConstBool
	KindConstNull
	KindConstSlice

	// Variable access
	KindLocalRef
	KindGlobalRef
	KindAddrLocal
	KindLoadLocal
	KindStoreLocal

	// Binary/unary
	KindBinary
	KindUnary

	// Struct access
	KindFieldLocal
	KindStoreLocalField
	KindStoreField
	KindFieldValue

	// Array/slice
	KindIndexLocal
	KindIndexValue
	KindStoreIndexLocal
	KindStoreIndexValue
	KindSliceLocal
	KindSliceValue

	// Pointer
	KindPtrLoad
	KindPtrStore
	KindPtrField
	KindPtrFieldStore
	KindPtrLoadValue
	KindPtrStoreValue
	KindAddrOffset
	KindAddrIndex

	// Control flow
	KindCall
	KindRet
	KindJump
	KindBranch
	KindPhi
	KindSelect

	// Conversion
	KindConvert

	// Containers
	KindListNew
	KindListPush
	KindListGet
	KindListSet
	KindListLen
	KindListFree
	KindMapNew
	KindMapSet
	KindMapGet
	KindMapHas
	KindMapFree

	// String
	KindStrConcat

	// Union (sum type)
	KindUnionInit
	KindUnionTag
	KindUnionPayload

	// Misc
	KindNop

	numKinds
)

var kindNames = [...]string{
	KindConstInt:        "const_int",
	KindConstFloat:      "const_float",
	KindConstBool:       "const_bool",
	KindConstNull:       "const_null",
	KindConstSlice:      "const_slice",
	KindLocalRef:        "local_ref",
	KindGlobalRef:       "global_ref",
	KindAddrLocal:       "addr_local",
	KindLoadLocal:       "load_local",
	KindStoreLocal:      "store_local",
	KindBinary:          "binary",
	KindUnary:           "unary",
	KindFieldLocal:      "field_local",
	KindStoreLocalField: "store_local_field",
	KindStoreField:      "store_field",
	KindFieldValue:      "field_value",
	KindIndexLocal:      "index_local",
	KindIndexValue:      "index_value",
	KindStoreIndexLocal: "store_index_local",
	KindStoreIndexValue: "store_index_value",
	KindSliceLocal:      "slice_local",
	KindSliceValue:      "slice_value",
	KindPtrLoad:         "ptr_load",
	KindPtrStore:        "ptr_store",
	KindPtrField:        "ptr_field",
	KindPtrFieldStore:   "ptr_field_store",
	KindPtrLoadValue:    "ptr_load_value",
	KindPtrStoreValue:   "ptr_store_value",
	KindAddrOffset:      "addr_offset",
	KindAddrIndex:       "addr_index",
	KindCall:            "call",
	KindRet:             "ret",
	KindJump:            "jump",
	KindBranch:          "branch",
	KindPhi:             "phi",
	KindSelect:          "select",
	KindConvert:         "convert",
	KindListNew:         "list_new",
	KindListPush:        "list_push",
	KindListGet:         "list_get",
	KindListSet:         "list_set",
	KindListLen:         "list_len",
	KindListFree:        "list_free",
	KindMapNew:          "map_new",
	KindMapSet:          "map_set",
	KindMapGet:          "map_get",
	KindMapHas:          "map_has",
	KindMapFree:         "map_free",
	KindStrConcat:       "str_concat",
	KindUnionInit:       "union_init",
	KindUnionTag:        "union_tag",
	KindUnionPayload:    "union_payload",
	KindNop:             "nop",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsTerminator reports whether the kind ends a basic block.
func (k Kind) IsTerminator() bool {
	switch k {
	case KindRet, KindJump, KindBranch:
		return true
	}
	return false
}

// HasSideEffects reports whether the kind writes memory, transfers
// control, or mutates a container.
func (k Kind) HasSideEffects() bool {
	switch k {
	case KindStoreLocal, KindStoreLocalField, KindStoreField,
		KindStoreIndexLocal, KindStoreIndexValue,
		KindPtrStore, KindPtrFieldStore, KindPtrStoreValue,
		KindCall, KindRet, KindJump, KindBranch,
		KindListNew, KindListPush, KindListSet, KindListFree,
		KindMapNew, KindMapSet, KindMapFree:
		return true
	}
	return false
}

// IsConstant reports whether the kind is one of the constant variants.
func (k Kind) IsConstant() bool {
	switch k {
	case KindConstInt, KindConstFloat, KindConstBool, KindConstNull, KindConstSlice:
		return true
	}
	return false
}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
)

var binaryOpNames = [...]string{
	BinAdd:    "add",
	BinSub:    "sub",
	BinMul:    "mul",
	BinDiv:    "div",
	BinMod:    "mod",
	BinEq:     "eq",
	BinNe:     "ne",
	BinLt:     "lt",
	BinLe:     "le",
	BinGt:     "gt",
	BinGe:     "ge",
	BinAnd:    "and",
	BinOr:     "or",
	BinBitAnd: "bit_and",
	BinBitOr:  "bit_or",
	BinBitXor: "bit_xor",
	BinShl:    "shl",
	BinShr:    "shr",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "unknown"
}

// IsArithmetic reports add/sub/mul/div/mod.
func (op BinaryOp) IsArithmetic() bool { return op >= BinAdd && op <= BinMod }

// IsComparison reports eq/ne/lt/le/gt/ge. Comparisons always produce a
// boolean result.
func (op BinaryOp) IsComparison() bool { return op >= BinEq && op <= BinGe }

// IsLogical reports and/or.
func (op BinaryOp) IsLogical() bool { return op == BinAnd || op == BinOr }

// IsBitwise reports bit_and/bit_or/bit_xor/shl/shr.
func (op BinaryOp) IsBitwise() bool { return op >= BinBitAnd && op <= BinShr }

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnNeg UnaryOp = iota
	UnNot
	UnBitNot
)

var unaryOpNames = [...]string{
	UnNeg:    "neg",
	UnNot:    "not",
	UnBitNot: "bit_not",
}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "unknown"
}

// IsArithmetic reports neg.
func (op UnaryOp) IsArithmetic() bool { return op == UnNeg }

// IsLogical reports not.
func (op UnaryOp) IsLogical() bool { return op == UnNot }

// IsBitwise reports bit_not.
func (op UnaryOp) IsBitwise() bool { return op == UnBitNot }

// Data is the tagged payload of a node. The set of implementations is
// closed; the unexported marker keeps external packages from adding
// variants.
type Data interface {
	Kind() Kind
	data()
}

// Constants

type ConstInt struct{ Value int64 }

type ConstFloat struct{ Value float64 }

type ConstBool struct{ Value bool }

type ConstNull struct{}

type ConstSlice struct{ Str StringIdx }

func (ConstInt) Kind() Kind   { return KindConstInt }
func (ConstFloat) Kind() Kind { return KindConstFloat }
func (ConstBool) Kind() Kind  { return KindConstBool }
func (ConstNull) Kind() Kind  { return KindConstNull }
func (ConstSlice) Kind() Kind { return KindConstSlice }

// Variable access

// LocalRef is an r-value reference to a local.
type LocalRef struct{ Local LocalIdx }

// GlobalRef is a reference to a module-level variable.
type GlobalRef struct {
	Global GlobalIdx
	Name   string
}

// AddrLocal takes the address of a local.
type AddrLocal struct{ Local LocalIdx }

// LoadLocal loads the value of a local.
type LoadLocal struct{ Local LocalIdx }

// StoreLocal stores a value into a local.
type StoreLocal struct {
	Local LocalIdx
	Value NodeIndex
}

func (LocalRef) Kind() Kind   { return KindLocalRef }
func (GlobalRef) Kind() Kind  { return KindGlobalRef }
func (AddrLocal) Kind() Kind  { return KindAddrLocal }
func (LoadLocal) Kind() Kind  { return KindLoadLocal }
func (StoreLocal) Kind() Kind { return KindStoreLocal }

// Binary/unary

type Binary struct {
	Op    BinaryOp
	Left  NodeIndex
	Right NodeIndex
}

type Unary struct {
	Op      UnaryOp
	Operand NodeIndex
}

func (Binary) Kind() Kind { return KindBinary }
func (Unary) Kind() Kind  { return KindUnary }

// Struct access

// FieldLocal reads a field of a struct held in a local.
type FieldLocal struct {
	Local    LocalIdx
	FieldIdx uint32
	Offset   int64 // bytes
}

// StoreLocalField stores into a field of a struct held in a local.
type StoreLocalField struct {
	Local    LocalIdx
	FieldIdx uint32
	Offset   int64
	Value    NodeIndex
}

// StoreField stores into a field of a computed base value.
type StoreField struct {
	Base     NodeIndex
	FieldIdx uint32
	Offset   int64
	Value    NodeIndex
}

// FieldValue reads a field of a computed base value.
type FieldValue struct {
	Base     NodeIndex
	FieldIdx uint32
	Offset   int64
}

func (FieldLocal) Kind() Kind      { return KindFieldLocal }
func (StoreLocalField) Kind() Kind { return KindStoreLocalField }
func (StoreField) Kind() Kind      { return KindStoreField }
func (FieldValue) Kind() Kind      { return KindFieldValue }

// Array/slice

// IndexLocal reads an element of an array/slice held in a local.
type IndexLocal struct {
	Local    LocalIdx
	Index    NodeIndex
	ElemSize int64
}

// IndexValue reads an element of a computed base value.
type IndexValue struct {
	Base     NodeIndex
	Index    NodeIndex
	ElemSize int64
}

// StoreIndexLocal stores an element of an array/slice held in a local.
type StoreIndexLocal struct {
	Local    LocalIdx
	Index    NodeIndex
	Value    NodeIndex
	ElemSize int64
}

// StoreIndexValue stores an element of a computed base value.
type StoreIndexValue struct {
	Base     NodeIndex
	Index    NodeIndex
	Value    NodeIndex
	ElemSize int64
}

// SliceLocal reslices an array/slice held in a local. Start and End are
// NullNode when the bound is omitted.
type SliceLocal struct {
	Local    LocalIdx
	Start    NodeIndex
	End      NodeIndex
	ElemSize int64
}

// SliceValue reslices a computed base value.
type SliceValue struct {
	Base     NodeIndex
	Start    NodeIndex
	End      NodeIndex
	ElemSize int64
}

func (IndexLocal) Kind() Kind      { return KindIndexLocal }
func (IndexValue) Kind() Kind      { return KindIndexValue }
func (StoreIndexLocal) Kind() Kind { return KindStoreIndexLocal }
func (StoreIndexValue) Kind() Kind { return KindStoreIndexValue }
func (SliceLocal) Kind() Kind      { return KindSliceLocal }
func (SliceValue) Kind() Kind      { return KindSliceValue }

// Pointer

// PtrLoad dereferences a pointer held in a local.
type PtrLoad struct{ Local LocalIdx }

// PtrStore stores through a pointer held in a local.
type PtrStore struct {
	Local LocalIdx
	Value NodeIndex
}

// PtrField reads a field through a pointer held in a local.
type PtrField struct {
	Local    LocalIdx
	FieldIdx uint32
	Offset   int64
}

// PtrFieldStore stores into a field through a pointer held in a local.
type PtrFieldStore struct {
	Local    LocalIdx
	FieldIdx uint32
	Offset   int64
	Value    NodeIndex
}

// PtrLoadValue dereferences a computed pointer value.
type PtrLoadValue struct{ Ptr NodeIndex }

// PtrStoreValue stores through a computed pointer value.
type PtrStoreValue struct {
	Ptr   NodeIndex
	Value NodeIndex
}

// AddrOffset computes base + constant byte offset.
type AddrOffset struct {
	Base   NodeIndex
	Offset int64
}

// AddrIndex computes base + index*elem_size.
type AddrIndex struct {
	Base     NodeIndex
	Index    NodeIndex
	ElemSize int64
}

func (PtrLoad) Kind() Kind       { return KindPtrLoad }
func (PtrStore) Kind() Kind      { return KindPtrStore }
func (PtrField) Kind() Kind      { return KindPtrField }
func (PtrFieldStore) Kind() Kind { return KindPtrFieldStore }
func (PtrLoadValue) Kind() Kind  { return KindPtrLoadValue }
func (PtrStoreValue) Kind() Kind { return KindPtrStoreValue }
func (AddrOffset) Kind() Kind    { return KindAddrOffset }
func (AddrIndex) Kind() Kind     { return KindAddrIndex }

// Control flow

// Call invokes a function by name. Args is an owned slice, copied from
// the caller at emit time.
type Call struct {
	Name      string
	Args      []NodeIndex
	IsBuiltin bool
}

// Ret returns from the function. Value is NullNode for void returns.
type Ret struct{ Value NodeIndex }

// Jump transfers control unconditionally.
type Jump struct{ Target BlockIndex }

// Branch transfers control on a boolean condition.
type Branch struct {
	Cond NodeIndex
	Then BlockIndex
	Else BlockIndex
}

// PhiSource pairs a predecessor block with the value flowing from it.
type PhiSource struct {
	Block BlockIndex
	Value NodeIndex
}

// Phi merges values from predecessor blocks. Reserved for a future SSA
// pass; no construction path here produces it.
type Phi struct{ Sources []PhiSource }

// Select chooses between two values on a boolean condition.
type Select struct {
	Cond NodeIndex
	Then NodeIndex
	Else NodeIndex
}

func (Call) Kind() Kind   { return KindCall }
func (Ret) Kind() Kind    { return KindRet }
func (Jump) Kind() Kind   { return KindJump }
func (Branch) Kind() Kind { return KindBranch }
func (Phi) Kind() Kind    { return KindPhi }
func (Select) Kind() Kind { return KindSelect }

// Conversion

// Convert converts an operand between two registry types.
type Convert struct {
	Operand NodeIndex
	From    TypeIndex
	To      TypeIndex
}

func (Convert) Kind() Kind { return KindConvert }

// Containers

type ListNew struct{}

type ListPush struct {
	List  NodeIndex
	Value NodeIndex
}

type ListGet struct {
	List  NodeIndex
	Index NodeIndex
}

type ListSet struct {
	List  NodeIndex
	Index NodeIndex
	Value NodeIndex
}

type ListLen struct{ List NodeIndex }

type ListFree struct{ List NodeIndex }

type MapNew struct{}

type MapSet struct {
	Map   NodeIndex
	Key   NodeIndex
	Value NodeIndex
}

type MapGet struct {
	Map NodeIndex
	Key NodeIndex
}

type MapHas struct {
	Map NodeIndex
	Key NodeIndex
}

type MapFree struct{ Map NodeIndex }

func (ListNew) Kind() Kind  { return KindListNew }
func (ListPush) Kind() Kind { return KindListPush }
func (ListGet) Kind() Kind  { return KindListGet }
func (ListSet) Kind() Kind  { return KindListSet }
func (ListLen) Kind() Kind  { return KindListLen }
func (ListFree) Kind() Kind { return KindListFree }
func (MapNew) Kind() Kind   { return KindMapNew }
func (MapSet) Kind() Kind   { return KindMapSet }
func (MapGet) Kind() Kind   { return KindMapGet }
func (MapHas) Kind() Kind   { return KindMapHas }
func (MapFree) Kind() Kind  { return KindMapFree }

// String

type StrConcat struct {
	Left  NodeIndex
	Right NodeIndex
}

func (StrConcat) Kind() Kind { return KindStrConcat }

// Union (sum type)

// UnionInit constructs a union value. Payload is NullNode for unit
// variants.
type UnionInit struct {
	VariantIdx uint32
	Payload    NodeIndex
}

// UnionTag reads the discriminant of a union value.
type UnionTag struct{ Value NodeIndex }

// UnionPayload reads the payload of a union value, assuming the given
// variant is active.
type UnionPayload struct {
	VariantIdx uint32
	Value      NodeIndex
}

func (UnionInit) Kind() Kind    { return KindUnionInit }
func (UnionTag) Kind() Kind     { return KindUnionTag }
func (UnionPayload) Kind() Kind { return KindUnionPayload }

// Misc

type Nop struct{}

func (Nop) Kind() Kind { return KindNop }

func (ConstInt) data()        {}
func (ConstFloat) data()      {}
func (ConstBool) data()       {}
func (ConstNull) data()       {}
func (ConstSlice) data()      {}
func (LocalRef) data()        {}
func (GlobalRef) data()       {}
func (AddrLocal) data()       {}
func (LoadLocal) data()       {}
func (StoreLocal) data()      {}
func (Binary) data()          {}
func (Unary) data()           {}
func (FieldLocal) data()      {}
func (StoreLocalField) data() {}
func (StoreField) data()      {}
func (FieldValue) data()      {}
func (IndexLocal) data()      {}
func (IndexValue) data()      {}
func (StoreIndexLocal) data() {}
func (StoreIndexValue) data() {}
func (SliceLocal) data()      {}
func (SliceValue) data()      {}
func (PtrLoad) data()         {}
func (PtrStore) data()        {}
func (PtrField) data()        {}
func (PtrFieldStore) data()   {}
func (PtrLoadValue) data()    {}
func (PtrStoreValue) data()   {}
func (AddrOffset) data()      {}
func (AddrIndex) data()       {}
func (Call) data()            {}
func (Ret) data()             {}
func (Jump) data()            {}
func (Branch) data()          {}
func (Phi) data()             {}
func (Select) data()          {}
func (Convert) data()         {}
func (ListNew) data()         {}
func (ListPush) data()        {}
func (ListGet) data()         {}
func (ListSet) data()         {}
func (ListLen) data()         {}
func (ListFree) data()        {}
func (MapNew) data()          {}
func (MapSet) data()          {}
func (MapGet) data()          {}
func (MapHas) data()          {}
func (MapFree) data()         {}
func (StrConcat) data()       {}
func (UnionInit) data()       {}
func (UnionTag) data()        {}
func (UnionPayload) data()    {}
func (Nop) data()             {}
