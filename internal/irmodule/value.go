package irmodule

import "github.com/go-llvm/llvm"

// Value is an opaque SSA value: a register, a constant, or a pointer.
type Value struct {
	v llvm.Value
}

// IsNil reports whether this is the zero Value (no underlying llvm.Value).
func (val Value) IsNil() bool { return val.v.IsNil() }

// SetInitializer attaches a constant initializer to a global Value.
func (val Value) SetInitializer(init Value) { val.v.SetInitializer(init.v) }

// SetLinkageExternal marks a declared-only global/function as external.
func (val Value) SetLinkageExternal() { val.v.SetLinkage(llvm.ExternalLinkage) }

// Function is an opaque handle to a declared or defined function.
type Function struct {
	v llvm.Value
}

// Value views the function as a callable Value (for Builder.Call).
func (f Function) Value() Value { return Value{v: f.v} }

// Param returns the i'th formal parameter as a Value.
func (f Function) Param(i int) Value { return Value{v: f.v.Param(i)} }

// AppendBlock creates and appends a fresh basic block to the end of f
// named name, returning a handle to it.
func (f Function) AppendBlock(name string) Block {
	return Block{b: llvm.AddBasicBlock(f.v, name)}
}

// Block is an opaque handle to a single basic block.
type Block struct {
	b llvm.BasicBlock
}

// IsNil reports whether this is the zero Block.
func (bl Block) IsNil() bool { return bl.b.IsNil() }

// FirstInstruction returns the block's first instruction, or the zero
// Value if the block is still empty.
func (bl Block) FirstInstruction() Value {
	return Value{v: bl.b.FirstInstruction()}
}

// --- Constant constructors ---

func ConstInt(t Type, v uint64, signed bool) Value {
	return Value{v: llvm.ConstInt(t.llty, v, signed)}
}

func ConstFloat(t Type, v float64) Value {
	return Value{v: llvm.ConstFloat(t.llty, v)}
}

func ConstBool(v bool) Value {
	if v {
		return Value{v: llvm.ConstInt(llvm.Int1Type(), 1, false)}
	}
	return Value{v: llvm.ConstInt(llvm.Int1Type(), 0, false)}
}

func ConstArray(elem Type, elems []Value) Value {
	vs := make([]llvm.Value, len(elems))
	for i, e := range elems {
		vs[i] = e.v
	}
	return Value{v: llvm.ConstArray(elem.llty, vs)}
}

func ConstNamedStruct(t Type, fields []Value) Value {
	vs := make([]llvm.Value, len(fields))
	for i, f := range fields {
		vs[i] = f.v
	}
	return Value{v: llvm.ConstNamedStruct(t.llty, vs)}
}
