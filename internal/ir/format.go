package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNode returns the stable one-line debug rendering of a node.
// Every variant is matched explicitly; there is no default case that
// falls back to the tag name. The compiler does not check the type
// switch for completeness: a variant missing from it still compiles and
// panics here at run time. The lexical forms are an external surface
// golden tests depend on.
func FormatNode(n *Node) string {
	switch d := n.Data.(type) {
	case ConstInt:
		return fmt.Sprintf("const_int value=%d", d.Value)
	case ConstFloat:
		return fmt.Sprintf("const_float value=%g", d.Value)
	case ConstBool:
		return fmt.Sprintf("const_bool value=%t", d.Value)
	case ConstNull:
		return "const_null"
	case ConstSlice:
		return fmt.Sprintf("const_slice str=%d", d.Str)

	case LocalRef:
		return fmt.Sprintf("local_ref local=%d", d.Local)
	case GlobalRef:
		return fmt.Sprintf("global_ref global=%d name=%s", d.Global, d.Name)
	case AddrLocal:
		return fmt.Sprintf("addr_local local=%d", d.Local)
	case LoadLocal:
		return fmt.Sprintf("load_local local=%d", d.Local)
	case StoreLocal:
		return fmt.Sprintf("store_local local=%d value=%d", d.Local, d.Value)

	case Binary:
		return fmt.Sprintf("binary %s left=%d right=%d", d.Op, d.Left, d.Right)
	case Unary:
		return fmt.Sprintf("unary %s operand=%d", d.Op, d.Operand)

	case FieldLocal:
		return fmt.Sprintf("field_local local=%d field=%d offset=%d", d.Local, d.FieldIdx, d.Offset)
	case StoreLocalField:
		return fmt.Sprintf("store_local_field local=%d field=%d offset=%d value=%d", d.Local, d.FieldIdx, d.Offset, d.Value)
	case StoreField:
		return fmt.Sprintf("store_field base=%d field=%d offset=%d value=%d", d.Base, d.FieldIdx, d.Offset, d.Value)
	case FieldValue:
		return fmt.Sprintf("field_value base=%d field=%d offset=%d", d.Base, d.FieldIdx, d.Offset)

	case IndexLocal:
		return fmt.Sprintf("index_local local=%d index=%d elem_size=%d", d.Local, d.Index, d.ElemSize)
	case IndexValue:
		return fmt.Sprintf("index_value base=%d index=%d elem_size=%d", d.Base, d.Index, d.ElemSize)
	case StoreIndexLocal:
		return fmt.Sprintf("store_index_local local=%d index=%d value=%d elem_size=%d", d.Local, d.Index, d.Value, d.ElemSize)
	case StoreIndexValue:
		return fmt.Sprintf("store_index_value base=%d index=%d value=%d elem_size=%d", d.Base, d.Index, d.Value, d.ElemSize)
	case SliceLocal:
		return fmt.Sprintf("slice_local local=%d start=%s end=%s elem_size=%d", d.Local, nodeRef(d.Start), nodeRef(d.End), d.ElemSize)
	case SliceValue:
		return fmt.Sprintf("slice_value base=%d start=%s end=%s elem_size=%d", d.Base, nodeRef(d.Start), nodeRef(d.End), d.ElemSize)

	case PtrLoad:
		return fmt.Sprintf("ptr_load local=%d", d.Local)
	case PtrStore:
		return fmt.Sprintf("ptr_store local=%d value=%d", d.Local, d.Value)
	case PtrField:
		return fmt.Sprintf("ptr_field local=%d field=%d offset=%d", d.Local, d.FieldIdx, d.Offset)
	case PtrFieldStore:
		return fmt.Sprintf("ptr_field_store local=%d field=%d offset=%d value=%d", d.Local, d.FieldIdx, d.Offset, d.Value)
	case PtrLoadValue:
		return fmt.Sprintf("ptr_load_value ptr=%d", d.Ptr)
	case PtrStoreValue:
		return fmt.Sprintf("ptr_store_value ptr=%d value=%d", d.Ptr, d.Value)
	case AddrOffset:
		return fmt.Sprintf("addr_offset base=%d offset=%d", d.Base, d.Offset)
	case AddrIndex:
		return fmt.Sprintf("addr_index base=%d index=%d elem_size=%d", d.Base, d.Index, d.ElemSize)

	case Call:
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = strconv.FormatUint(uint64(a), 10)
		}
		s := fmt.Sprintf("call %s args=[%s]", d.Name, strings.Join(args, ","))
		if d.IsBuiltin {
			s += " builtin"
		}
		return s
	case Ret:
		if d.Value.IsNull() {
			return "ret void"
		}
		return fmt.Sprintf("ret value=%d", d.Value)
	case Jump:
		return fmt.Sprintf("jump block=%d", d.Target)
	case Branch:
		return fmt.Sprintf("branch cond=%d then=%d else=%d", d.Cond, d.Then, d.Else)
	case Phi:
		srcs := make([]string, len(d.Sources))
		for i, s := range d.Sources {
			srcs[i] = fmt.Sprintf("%d:%d", s.Block, s.Value)
		}
		return fmt.Sprintf("phi sources=[%s]", strings.Join(srcs, ","))
	case Select:
		return fmt.Sprintf("select cond=%d then=%d else=%d", d.Cond, d.Then, d.Else)

	case Convert:
		return fmt.Sprintf("convert operand=%d from=%d to=%d", d.Operand, d.From, d.To)

	case ListNew:
		return "list_new"
	case ListPush:
		return fmt.Sprintf("list_push list=%d value=%d", d.List, d.Value)
	case ListGet:
		return fmt.Sprintf("list_get list=%d index=%d", d.List, d.Index)
	case ListSet:
		return fmt.Sprintf("list_set list=%d index=%d value=%d", d.List, d.Index, d.Value)
	case ListLen:
		return fmt.Sprintf("list_len list=%d", d.List)
	case ListFree:
		return fmt.Sprintf("list_free list=%d", d.List)
	case MapNew:
		return "map_new"
	case MapSet:
		return fmt.Sprintf("map_set map=%d key=%d value=%d", d.Map, d.Key, d.Value)
	case MapGet:
		return fmt.Sprintf("map_get map=%d key=%d", d.Map, d.Key)
	case MapHas:
		return fmt.Sprintf("map_has map=%d key=%d", d.Map, d.Key)
	case MapFree:
		return fmt.Sprintf("map_free map=%d", d.Map)

	case StrConcat:
		return fmt.Sprintf("str_concat left=%d right=%d", d.Left, d.Right)

	case UnionInit:
		return fmt.Sprintf("union_init variant=%d payload=%s", d.VariantIdx, nodeRef(d.Payload))
	case UnionTag:
		return fmt.Sprintf("union_tag value=%d", d.Value)
	case UnionPayload:
		return fmt.Sprintf("union_payload variant=%d value=%d", d.VariantIdx, d.Value)

	case Nop:
		return "nop"
	}
	panic(fmt.Sprintf("ir: unhandled variant %T", n.Data))
}

func nodeRef(idx NodeIndex) string {
	if idx.IsNull() {
		return "none"
	}
	return strconv.FormatUint(uint64(idx), 10)
}

// FormatFunction renders a function for logs: signature, frame, blocks
// and their nodes, one node per line.
func FormatFunction(f *Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fn %s frame=%d {\n", f.Name, f.FrameSize)
	for i := range f.Locals {
		l := &f.Locals[i]
		role := "local"
		if l.IsParam {
			role = "param"
		}
		fmt.Fprintf(&b, "  %s %d %s size=%d align=%d offset=%d\n", role, i, l.Name, l.Size, l.Align, l.Offset)
	}
	for bi := range f.Blocks {
		blk := &f.Blocks[bi]
		if blk.Label != "" {
			fmt.Fprintf(&b, "b%d (%s):\n", bi, blk.Label)
		} else {
			fmt.Fprintf(&b, "b%d:\n", bi)
		}
		for _, ni := range blk.Nodes {
			fmt.Fprintf(&b, "  n%d = %s\n", ni, FormatNode(&f.Nodes[ni]))
		}
	}
	b.WriteString("}")
	return b.String()
}
