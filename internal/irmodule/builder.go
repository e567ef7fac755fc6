package irmodule

import "github.com/go-llvm/llvm"

// Builder is the cursor: a (block, position) pair at which the next
// instruction is appended. Every control-flow lowering operation ends by
// repositioning it, per the discipline the lowering engine follows.
type Builder struct {
	b llvm.Builder
}

// PositionAtEnd moves the cursor to the end of block, the insertion point
// for all subsequent Create* calls.
func (bd *Builder) PositionAtEnd(block Block) {
	bd.b.SetInsertPointAtEnd(block.b)
}

// PositionBefore moves the cursor to just before an existing instruction,
// used for entry-block local allocation so that allocas always land before
// the block's first non-alloca instruction.
func (bd *Builder) PositionBefore(instr Value) {
	bd.b.SetInsertPointBefore(instr.v)
}

// CurrentBlock returns the block the cursor is presently positioned in.
func (bd *Builder) CurrentBlock() Block {
	return Block{b: bd.b.GetInsertBlock()}
}

func (bd *Builder) Alloca(t Type, name string) Value {
	return Value{v: bd.b.CreateAlloca(t.llty, name)}
}

func (bd *Builder) Load(t Type, ptr Value, name string) Value {
	return Value{v: bd.b.CreateLoad(ptr.v, name)}
}

func (bd *Builder) Store(val, ptr Value) Value {
	return Value{v: bd.b.CreateStore(val.v, ptr.v)}
}

func (bd *Builder) Br(target Block) Value {
	return Value{v: bd.b.CreateBr(target.b)}
}

func (bd *Builder) CondBr(cond Value, then, els Block) Value {
	return Value{v: bd.b.CreateCondBr(cond.v, then.b, els.b)}
}

func (bd *Builder) Ret(val Value) Value {
	return Value{v: bd.b.CreateRet(val.v)}
}

func (bd *Builder) RetVoid() Value {
	return Value{v: bd.b.CreateRetVoid()}
}

func (bd *Builder) Call(fn Function, args []Value, name string) Value {
	as := make([]llvm.Value, len(args))
	for i, a := range args {
		as[i] = a.v
	}
	return Value{v: bd.b.CreateCall(fn.v, as, name)}
}

// --- Arithmetic ---

func (bd *Builder) Add(a, b Value, name string) Value  { return Value{v: bd.b.CreateAdd(a.v, b.v, name)} }
func (bd *Builder) Sub(a, b Value, name string) Value  { return Value{v: bd.b.CreateSub(a.v, b.v, name)} }
func (bd *Builder) Mul(a, b Value, name string) Value  { return Value{v: bd.b.CreateMul(a.v, b.v, name)} }
func (bd *Builder) SDiv(a, b Value, name string) Value { return Value{v: bd.b.CreateSDiv(a.v, b.v, name)} }
func (bd *Builder) UDiv(a, b Value, name string) Value { return Value{v: bd.b.CreateUDiv(a.v, b.v, name)} }
func (bd *Builder) SRem(a, b Value, name string) Value { return Value{v: bd.b.CreateSRem(a.v, b.v, name)} }
func (bd *Builder) URem(a, b Value, name string) Value { return Value{v: bd.b.CreateURem(a.v, b.v, name)} }
func (bd *Builder) FAdd(a, b Value, name string) Value { return Value{v: bd.b.CreateFAdd(a.v, b.v, name)} }
func (bd *Builder) FSub(a, b Value, name string) Value { return Value{v: bd.b.CreateFSub(a.v, b.v, name)} }
func (bd *Builder) FMul(a, b Value, name string) Value { return Value{v: bd.b.CreateFMul(a.v, b.v, name)} }
func (bd *Builder) FDiv(a, b Value, name string) Value { return Value{v: bd.b.CreateFDiv(a.v, b.v, name)} }
func (bd *Builder) Neg(a Value, name string) Value     { return Value{v: bd.b.CreateNeg(a.v, name)} }
func (bd *Builder) FNeg(a Value, name string) Value    { return Value{v: bd.b.CreateFNeg(a.v, name)} }
func (bd *Builder) And(a, b Value, name string) Value  { return Value{v: bd.b.CreateAnd(a.v, b.v, name)} }
func (bd *Builder) Or(a, b Value, name string) Value   { return Value{v: bd.b.CreateOr(a.v, b.v, name)} }
func (bd *Builder) Xor(a, b Value, name string) Value  { return Value{v: bd.b.CreateXor(a.v, b.v, name)} }

// IntPredicate mirrors llvm.IntPredicate without leaking the llvm package.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
	IntNE
	IntSLT
	IntSLE
	IntSGT
	IntSGE
	IntULT
	IntULE
	IntUGT
	IntUGE
)

var intPredicateToLLVM = map[IntPredicate]llvm.IntPredicate{
	IntEQ:  llvm.IntEQ,
	IntNE:  llvm.IntNE,
	IntSLT: llvm.IntSLT,
	IntSLE: llvm.IntSLE,
	IntSGT: llvm.IntSGT,
	IntSGE: llvm.IntSGE,
	IntULT: llvm.IntULT,
	IntULE: llvm.IntULE,
	IntUGT: llvm.IntUGT,
	IntUGE: llvm.IntUGE,
}

func (bd *Builder) ICmp(pred IntPredicate, a, b Value, name string) Value {
	return Value{v: bd.b.CreateICmp(intPredicateToLLVM[pred], a.v, b.v, name)}
}

// FloatPredicate mirrors llvm.FloatPredicate without leaking the llvm package.
type FloatPredicate int

const (
	FloatOEQ FloatPredicate = iota
	FloatONE
	FloatOLT
	FloatOLE
	FloatOGT
	FloatOGE
)

var floatPredicateToLLVM = map[FloatPredicate]llvm.FloatPredicate{
	FloatOEQ: llvm.FloatOEQ,
	FloatONE: llvm.FloatONE,
	FloatOLT: llvm.FloatOLT,
	FloatOLE: llvm.FloatOLE,
	FloatOGT: llvm.FloatOGT,
	FloatOGE: llvm.FloatOGE,
}

func (bd *Builder) FCmp(pred FloatPredicate, a, b Value, name string) Value {
	return Value{v: bd.b.CreateFCmp(floatPredicateToLLVM[pred], a.v, b.v, name)}
}

// StructFieldPtr computes the address of field index `index` of the record pointed
// to by ptr (struct type structTy), used for dot-access field addressing.
func (bd *Builder) StructFieldPtr(ptr Value, index int, name string) Value {
	return Value{v: bd.b.CreateStructGEP(ptr.v, index, name)}
}

// ArrayElementPtr computes the address of element idx of the array pointed
// to by ptr.
func (bd *Builder) ArrayElementPtr(ptr Value, idx Value, name string) Value {
	zero := llvm.ConstInt(llvm.Int32Type(), 0, false)
	return Value{v: bd.b.CreateGEP(ptr.v, []llvm.Value{zero, idx.v}, name)}
}
