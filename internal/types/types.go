package types

// TypeIndex is a dense handle into a Registry.
type TypeIndex uint32

// NoType is the reserved "absent" type handle.
const NoType = TypeIndex(^uint32(0))

// IsNull reports whether the handle is the reserved sentinel.
func (t TypeIndex) IsNull() bool { return t == NoType }

// Kind discriminates the shape of a type record.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindPointer
	KindSlice
	KindStruct
	KindUnion
	KindFunc
)

var kindNames = [...]string{
	KindVoid:    "void",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindPointer: "pointer",
	KindSlice:   "slice",
	KindStruct:  "struct",
	KindUnion:   "union",
	KindFunc:    "func",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Field is a named member of a struct type.
type Field struct {
	Name   string
	Type   TypeIndex
	Offset int64 // byte offset within the struct
}

// Variant is one case of a union type.
type Variant struct {
	Name    string
	Payload TypeIndex // NoType for unit variants
}

// Type is a single kind-discriminated type record.
type Type struct {
	Name  string
	Kind  Kind
	Size  int64 // bytes
	Align int64 // bytes, power of two

	Elem     TypeIndex // pointer/slice element
	Fields   []Field   // struct members
	Variants []Variant // union cases
	Params   []TypeIndex
	Return   TypeIndex // func result
}
