// Package irmodule wraps github.com/go-llvm/llvm into the narrow opaque
// surface the lowering engine is allowed to see: new module, new function,
// new block, position the builder cursor, emit an instruction. No package
// outside irmodule imports github.com/go-llvm/llvm directly — the rest of
// the repository only ever sees Module, Function, Block, Builder and Value.
package irmodule

import "github.com/go-llvm/llvm"

// Module owns one compilation's worth of LLVM IR.
type Module struct {
	llmod   llvm.Module
	builder llvm.Builder
}

// New creates an empty module named name.
func New(name string) *Module {
	return &Module{
		llmod:   llvm.NewModule(name),
		builder: llvm.NewBuilder(),
	}
}

// String renders the module as LLVM IR text.
func (m *Module) String() string {
	return m.llmod.String()
}

// Dispose releases the module's and builder's native resources.
func (m *Module) Dispose() {
	m.builder.Dispose()
	m.llmod.Dispose()
}

// Builder returns the single shared builder cursor for this module.
func (m *Module) Builder() *Builder {
	return &Builder{b: m.builder}
}

// AddGlobal declares a global variable of type t named name, with no
// initializer set yet (the caller sets one via Value.SetInitializer).
func (m *Module) AddGlobal(name string, t Type) Value {
	return Value{v: llvm.AddGlobal(m.llmod, t.llty, name)}
}

// AddFunction declares (but does not define) a function named name with
// the given signature.
func (m *Module) AddFunction(name string, fnType Type) Function {
	return Function{v: llvm.AddFunction(m.llmod, name, fnType.llty)}
}
