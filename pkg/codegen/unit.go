package codegen

import (
	"fmt"

	"legen/internal/ast"
	"legen/internal/irmodule"
)

// Compile lowers a whole translation unit into module in three ordered
// passes, per §4.7: every record type is declared before any global or
// function references it, every global is emitted before any function
// body runs (so forward references to globals resolve), and every extern
// prototype is declared before any function definition is lowered (so
// every body can call every extern). A function definition is declared
// only when it is lowered, so a body can call itself and earlier
// definitions but not later ones; mutual recursion between definitions
// fails as NotFound.
func Compile(module *irmodule.Module, tu *ast.TranslationUnit) error {
	e := NewEngine(module)

	for _, decl := range tu.GlobalStructures {
		fields := make([]StructField, len(decl.Fields))
		for i, f := range decl.Fields {
			t, err := e.types.Resolve(f.Type)
			if err != nil {
				return err
			}
			fields[i] = StructField{Name: f.Name, Type: t}
		}
		if _, err := e.types.DeclareStruct(decl.Name, fields); err != nil {
			return err
		}
	}

	for _, v := range tu.GlobalVariables {
		if err := e.defineGlobal(v); err != nil {
			return err
		}
	}

	for _, proto := range tu.ExternFunctions {
		if err := e.DeclareExtern(proto); err != nil {
			return err
		}
	}

	for _, def := range tu.FunctionDefs {
		if err := e.DefineFunction(def); err != nil {
			return err
		}
	}

	return nil
}

// defineGlobal emits a module-level global whose initializer must be
// constant-foldable: a literal, or an aggregate built entirely from
// literals and other already-declared globals is not supported here —
// only direct literal and constant-aggregate initializers fold, matching
// what lowerExpr can produce without a live function context.
func (e *Engine) defineGlobal(v *ast.Variable) error {
	val, err := e.lowerConstExpr(v.Value)
	if err != nil {
		return err
	}
	declType := val.Type
	if v.Prototype.TypeDeclarator != nil {
		t, err := e.types.Resolve(v.Prototype.TypeDeclarator)
		if err != nil {
			return err
		}
		if !t.Equals(val.Type) {
			return errTypeMismatched(t.String(), val.Type.String(), "global "+v.Prototype.Name)
		}
		declType = t
	}
	g := e.module.AddGlobal(v.Prototype.Name, e.types.SSAType(declType))
	g.SetInitializer(val.Val)
	if err := e.scopes.InsertGlobal(&Symbol{Name: v.Prototype.Name, Kind: SymGlobal, Type: declType, Storage: g}); err != nil {
		return err
	}
	return nil
}

// lowerConstExpr evaluates an expression with no function context: only
// the constant-foldable expression kinds (number literals, true/false,
// array initializers, and structure initializers built from further
// constants) are legal here, anything that would require a builder
// cursor fails as NonConstantGlobal.
func (e *Engine) lowerConstExpr(expr ast.Expr) (ExpressionResult, error) {
	switch ex := expr.(type) {
	case *ast.NumberLiteral:
		return e.lowerNumberLiteral(ex)
	case *ast.Identifier:
		if ex.Name == "true" || ex.Name == "false" {
			return e.lowerIdentifier(ex)
		}
		return ExpressionResult{}, errNonConstantGlobal(fmt.Sprintf("reference to %q is not a constant", ex.Name))
	case *ast.ArrayInitializer:
		if len(ex.Elements) == 0 {
			return ExpressionResult{}, errNotAllowZeroLengthArray()
		}
		elems := make([]irmodule.Value, len(ex.Elements))
		var elemType *TypeHandle
		for i, elemExpr := range ex.Elements {
			v, err := e.lowerConstExpr(elemExpr)
			if err != nil {
				return ExpressionResult{}, err
			}
			if elemType == nil {
				elemType = v.Type
			} else if !elemType.Equals(v.Type) {
				return ExpressionResult{}, errTypeMismatched(elemType.String(), v.Type.String(), "array initializer element")
			}
			elems[i] = v.Val
		}
		arrType := &TypeHandle{Kind: KindArray, Element: elemType, N: len(elems)}
		return RValueResult(irmodule.ConstArray(e.types.SSAType(elemType), elems), arrType), nil
	case *ast.StructureInitializer:
		return e.lowerConstStructureInitializer(ex)
	default:
		return ExpressionResult{}, errNonConstantGlobal(fmt.Sprintf("%T is not a constant expression", expr))
	}
}

func (e *Engine) lowerConstStructureInitializer(init *ast.StructureInitializer) (ExpressionResult, error) {
	h, err := e.types.Resolve(&ast.TypeIdentifier{Name: init.StructName})
	if err != nil {
		return ExpressionResult{}, err
	}
	if h.Kind != KindStruct {
		return ExpressionResult{}, errTypeMismatched("struct", h.String(), fmt.Sprintf("%q is not a record type", init.StructName))
	}
	values := make([]irmodule.Value, len(h.Struct.Fields))
	filled := make([]bool, len(h.Struct.Fields))
	for _, f := range init.Fields {
		idx, err := e.types.FieldOffset(h, f.Name)
		if err != nil {
			return ExpressionResult{}, err
		}
		v, err := e.lowerConstExpr(f.Value)
		if err != nil {
			return ExpressionResult{}, err
		}
		declaredType := h.Struct.Fields[idx].Type
		if !declaredType.Equals(v.Type) {
			return ExpressionResult{}, errTypeMismatched(declaredType.String(), v.Type.String(),
				fmt.Sprintf("field %q of %q", f.Name, init.StructName))
		}
		values[idx] = v.Val
		filled[idx] = true
	}
	for i, ok := range filled {
		if !ok {
			return ExpressionResult{}, errTypeMismatched("all fields supplied", "missing field",
				fmt.Sprintf("field %q of %q missing", h.Struct.Fields[i].Name, init.StructName))
		}
	}
	return RValueResult(irmodule.ConstNamedStruct(e.types.SSAType(h), values), h), nil
}
