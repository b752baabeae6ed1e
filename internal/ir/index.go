package ir

// Dense handles into a function's (or program's) containers. Each kind
// is a distinct type so cross-assignment is a compile-time error; each
// reserves the maximum value as its "absent" sentinel.

// NodeIndex identifies a node in a function's node pool.
type NodeIndex uint32

// LocalIdx identifies a local in a function's local table.
type LocalIdx uint32

// BlockIndex identifies a basic block in a function.
type BlockIndex uint32

// ParamIdx identifies a parameter position.
type ParamIdx uint32

// StringIdx identifies an entry in a function's string literal table.
type StringIdx uint32

// GlobalIdx identifies a module-level variable.
type GlobalIdx uint32

const (
	NullNode   = NodeIndex(^uint32(0))
	NullLocal  = LocalIdx(^uint32(0))
	NullBlock  = BlockIndex(^uint32(0))
	NullParam  = ParamIdx(^uint32(0))
	NullString = StringIdx(^uint32(0))
	NullGlobal = GlobalIdx(^uint32(0))
)

func (i NodeIndex) IsNull() bool  { return i == NullNode }
func (i LocalIdx) IsNull() bool   { return i == NullLocal }
func (i BlockIndex) IsNull() bool { return i == NullBlock }
func (i ParamIdx) IsNull() bool   { return i == NullParam }
func (i StringIdx) IsNull() bool  { return i == NullString }
func (i GlobalIdx) IsNull() bool  { return i == NullGlobal }
