package irmodule

import "github.com/go-llvm/llvm"

// Type is an opaque handle to an SSA-layer type, the output of resolving a
// type_handle from the Type Registry into something the builder can use.
type Type struct {
	llty llvm.Type
}

func IntType(width int) Type {
	switch width {
	case 1:
		return Type{llty: llvm.Int1Type()}
	case 8:
		return Type{llty: llvm.Int8Type()}
	case 16:
		return Type{llty: llvm.Int16Type()}
	case 32:
		return Type{llty: llvm.Int32Type()}
	case 64:
		return Type{llty: llvm.Int64Type()}
	default:
		return Type{llty: llvm.IntType(width)}
	}
}

func BoolType() Type { return IntType(1) }

func FloatType(width int) Type {
	if width == 32 {
		return Type{llty: llvm.FloatType()}
	}
	return Type{llty: llvm.DoubleType()}
}

func VoidType() Type { return Type{llty: llvm.VoidType()} }

func PointerType(pointee Type) Type {
	return Type{llty: llvm.PointerType(pointee.llty, 0)}
}

func ArrayType(elem Type, n int) Type {
	return Type{llty: llvm.ArrayType(elem.llty, n)}
}

func VectorType(elem Type, n int) Type {
	return Type{llty: llvm.VectorType(elem.llty, n)}
}

// NamedStructType creates a new named record type in the global LLVM
// context and sets its body. It does not look up an existing type of the
// same name; if the name is already taken, LLVM gives the new type a
// uniquified name.
func NamedStructType(name string, fields []Type) Type {
	st := llvm.GlobalContext().StructCreateNamed(name)
	body := make([]llvm.Type, len(fields))
	for i, f := range fields {
		body[i] = f.llty
	}
	st.StructSetBody(body, false)
	return Type{llty: st}
}

// FunctionType builds a function signature type used only with AddFunction;
// it is not itself a first-class value type.
func FunctionType(ret Type, params []Type, variadic bool) Type {
	p := make([]llvm.Type, len(params))
	for i, t := range params {
		p[i] = t.llty
	}
	return Type{llty: llvm.FunctionType(ret.llty, p, variadic)}
}
