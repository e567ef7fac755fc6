package codegen

import (
	"fmt"

	"legen/internal/ast"
	"legen/internal/irmodule"
)

// funcContext is the per-function mutable state the engine maintains while
// lowering one function's body: the function handle, the dedicated return
// block, an optional return-value slot, and the entry block locals are
// allocated into.
type funcContext struct {
	function    irmodule.Function
	entryBlock  irmodule.Block
	returnBlock irmodule.Block
	returnSlot  irmodule.Value // zero Value iff returnType == nil
	returnType  *TypeHandle    // nil means void
}

// Engine is the recursive translator over expressions and statements. It
// owns the builder cursor as exclusive mutable state for the span of one
// Compile call.
type Engine struct {
	module  *irmodule.Module
	builder *irmodule.Builder
	types   *TypeRegistry
	scopes  *ScopeStack
	current *funcContext
}

func NewEngine(module *irmodule.Module) *Engine {
	return &Engine{
		module:  module,
		builder: module.Builder(),
		types:   NewTypeRegistry(),
		scopes:  NewScopeStack(),
	}
}

// resolveSignature resolves a prototype's parameter and return types.
func (e *Engine) resolveSignature(proto *ast.FunctionPrototype) ([]*TypeHandle, *TypeHandle, error) {
	paramTypes := make([]*TypeHandle, len(proto.ParamTypes))
	for i, decl := range proto.ParamTypes {
		t, err := e.types.Resolve(decl)
		if err != nil {
			return nil, nil, err
		}
		paramTypes[i] = t
	}
	var retType *TypeHandle
	if proto.ReturnType != nil {
		t, err := e.types.Resolve(proto.ReturnType)
		if err != nil {
			return nil, nil, err
		}
		retType = t
	}
	return paramTypes, retType, nil
}

func (e *Engine) ssaFunctionType(paramTypes []*TypeHandle, retType *TypeHandle) irmodule.Type {
	ssaParams := make([]irmodule.Type, len(paramTypes))
	for i, t := range paramTypes {
		ssaParams[i] = e.types.SSAType(t)
	}
	ssaRet := irmodule.VoidType()
	if retType != nil {
		ssaRet = e.types.SSAType(retType)
	}
	return irmodule.FunctionType(ssaRet, ssaParams, false)
}

// declareFunctionSymbol resolves a prototype, declares the SSA function,
// and inserts the function symbol. Shared by extern prototypes and
// function definitions — step 1 of function lowering (see §4.6).
func (e *Engine) declareFunctionSymbol(proto *ast.FunctionPrototype) (*Symbol, error) {
	paramTypes, retType, err := e.resolveSignature(proto)
	if err != nil {
		return nil, err
	}
	fnType := e.ssaFunctionType(paramTypes, retType)
	fn := e.module.AddFunction(proto.Name, fnType)
	sym := &Symbol{
		Name:       proto.Name,
		Kind:       SymFunction,
		Func:       fn,
		ParamTypes: paramTypes,
		ReturnType: retType,
	}
	if err := e.scopes.InsertFunction(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// DeclareExtern lowers an external function prototype. External
// prototypes stop at step 1 of §4.6 — declare and insert, no body.
func (e *Engine) DeclareExtern(proto *ast.FunctionPrototype) error {
	sym, err := e.declareFunctionSymbol(proto)
	if err != nil {
		return err
	}
	sym.Func.Value().SetLinkageExternal()
	return nil
}

// allocaInEntry allocates a stack slot in the function's entry block
// regardless of the builder's current position, then restores the
// builder's prior position. This is the "allocate once per activation"
// rule LocalVar and parameter binding both depend on.
func (e *Engine) allocaInEntry(t *TypeHandle, name string) irmodule.Value {
	saved := e.builder.CurrentBlock()
	first := e.current.entryBlock.FirstInstruction()
	if first.IsNil() {
		e.builder.PositionAtEnd(e.current.entryBlock)
	} else {
		e.builder.PositionBefore(first)
	}
	slot := e.builder.Alloca(e.types.SSAType(t), name)
	if !saved.IsNil() {
		e.builder.PositionAtEnd(saved)
	}
	return slot
}

// DefineFunction lowers a full function definition per §4.6.
func (e *Engine) DefineFunction(def *ast.FunctionDefinition) error {
	sym, err := e.declareFunctionSymbol(def.Prototype)
	if err != nil {
		return err
	}

	entry := sym.Func.AppendBlock("entry")
	returnBlock := sym.Func.AppendBlock("return")

	ctx := &funcContext{
		function:    sym.Func,
		entryBlock:  entry,
		returnBlock: returnBlock,
		returnType:  sym.ReturnType,
	}
	e.current = ctx
	defer func() { e.current = nil }()

	e.builder.PositionAtEnd(entry)
	if ctx.returnType != nil {
		ctx.returnSlot = e.builder.Alloca(e.types.SSAType(ctx.returnType), "retval")
	}

	depthAtEntry := e.scopes.Depth()
	e.scopes.PushScope()

	if len(def.ParamNames) != len(sym.ParamTypes) {
		return errArgumentMismatch(fmt.Sprintf("function %q declares %d parameter types but %d names",
			sym.Name, len(sym.ParamTypes), len(def.ParamNames)))
	}
	for i, pname := range def.ParamNames {
		ptype := sym.ParamTypes[i]
		slot := e.allocaInEntry(ptype, pname)
		e.builder.Store(sym.Func.Param(i), slot)
		if err := e.scopes.InsertLocal(&Symbol{Name: pname, Kind: SymLocal, Type: ptype, Storage: slot}); err != nil {
			return err
		}
	}

	e.builder.PositionAtEnd(entry)

	terminated, err := e.lowerBlock(def.CodeBlock)
	if err != nil {
		return err
	}
	if !terminated {
		e.builder.Br(returnBlock)
	}

	e.scopes.PopScope()
	if e.scopes.Depth() != depthAtEntry {
		panic("codegen: scope stack depth changed across function lowering")
	}

	e.builder.PositionAtEnd(returnBlock)
	if ctx.returnType != nil {
		v := e.builder.Load(e.types.SSAType(ctx.returnType), ctx.returnSlot, "")
		e.builder.Ret(v)
	} else {
		e.builder.RetVoid()
	}

	return nil
}
