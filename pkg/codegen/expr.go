package codegen

import (
	"fmt"

	"legen/internal/ast"
	"legen/internal/irmodule"
)

// lowerExpr dispatches on the expression variant and produces an
// ExpressionResult, per §4.4.
func (e *Engine) lowerExpr(expr ast.Expr) (ExpressionResult, error) {
	switch ex := expr.(type) {
	case *ast.NumberLiteral:
		return e.lowerNumberLiteral(ex)
	case *ast.Identifier:
		return e.lowerIdentifier(ex)
	case *ast.CallExpression:
		return e.lowerCall(ex)
	case *ast.ArrayInitializer:
		return e.lowerArrayInitializer(ex)
	case *ast.StructureInitializer:
		return e.lowerStructureInitializer(ex)
	case *ast.UnaryOperator:
		return e.lowerUnary(ex)
	case *ast.BinaryOperator:
		return e.lowerBinary(ex)
	default:
		return ExpressionResult{}, fmt.Errorf("codegen: unrecognised expression node %T", expr)
	}
}

// readExpr lowers then reads expr in one step, the common case for operand
// evaluation.
func (e *Engine) readExpr(expr ast.Expr) (ExpressionResult, error) {
	r, err := e.lowerExpr(expr)
	if err != nil {
		return ExpressionResult{}, err
	}
	return e.read(r)
}

// lowerNumberLiteral defaults integers to 32-bit signed and floats to
// 64-bit double.
func (e *Engine) lowerNumberLiteral(n *ast.NumberLiteral) (ExpressionResult, error) {
	if n.IsFloat {
		t := doubleHandle
		return RValueResult(irmodule.ConstFloat(e.types.SSAType(t), n.Float), t), nil
	}
	t := intHandle(32, true)
	return RValueResult(irmodule.ConstInt(e.types.SSAType(t), uint64(n.Int), true), t), nil
}

func (e *Engine) lowerIdentifier(id *ast.Identifier) (ExpressionResult, error) {
	switch id.Name {
	case "true":
		return RValueResult(irmodule.ConstBool(true), boolHandle), nil
	case "false":
		return RValueResult(irmodule.ConstBool(false), boolHandle), nil
	}
	sym, ok := e.scopes.Lookup(id.Name)
	if !ok {
		return ExpressionResult{}, errNotFound(fmt.Sprintf("identifier %q", id.Name))
	}
	if sym.Kind == SymFunction {
		return ExpressionResult{}, fmt.Errorf("codegen: %q is a function, not an expression (NotAnExpression)", id.Name)
	}
	return LValueResult(sym.Storage, sym.Type), nil
}

func (e *Engine) lowerCall(call *ast.CallExpression) (ExpressionResult, error) {
	sym, ok := e.scopes.Lookup(call.Callee)
	if !ok {
		return ExpressionResult{}, errNotFound(fmt.Sprintf("function %q", call.Callee))
	}
	if sym.Kind != SymFunction {
		return ExpressionResult{}, errArgumentMismatch(fmt.Sprintf("%q is not a function", call.Callee))
	}
	if len(call.Args) != len(sym.ParamTypes) {
		return ExpressionResult{}, errArgumentMismatch(
			fmt.Sprintf("%q expects %d arguments, got %d", call.Callee, len(sym.ParamTypes), len(call.Args)))
	}
	args := make([]irmodule.Value, len(call.Args))
	for i, argExpr := range call.Args {
		arg, err := e.readExpr(argExpr)
		if err != nil {
			return ExpressionResult{}, err
		}
		if !arg.Type.Equals(sym.ParamTypes[i]) {
			return ExpressionResult{}, errArgumentMismatch(
				fmt.Sprintf("%q argument %d: expected %s, got %s", call.Callee, i, sym.ParamTypes[i], arg.Type))
		}
		args[i] = arg.Val
	}
	result := e.builder.Call(sym.Func, args, "")
	if sym.ReturnType == nil {
		return UnitResult(), nil
	}
	return RValueResult(result, sym.ReturnType), nil
}

// lowerArrayInitializer rejects zero-length arrays, requires all elements
// to share one type, and emits a constant aggregate.
func (e *Engine) lowerArrayInitializer(init *ast.ArrayInitializer) (ExpressionResult, error) {
	if len(init.Elements) == 0 {
		return ExpressionResult{}, errNotAllowZeroLengthArray()
	}
	elems := make([]irmodule.Value, len(init.Elements))
	var elemType *TypeHandle
	for i, elemExpr := range init.Elements {
		v, err := e.readExpr(elemExpr)
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
	agg := irmodule.ConstArray(e.types.SSAType(elemType), elems)
	return RValueResult(agg, arrType), nil
}

// lowerStructureInitializer resolves the record type, requires exactly one
// value per declared field, reorders to declaration order (I6, P5), and
// emits a constant named-record aggregate.
func (e *Engine) lowerStructureInitializer(init *ast.StructureInitializer) (ExpressionResult, error) {
	h, err := e.types.Resolve(&ast.TypeIdentifier{Name: init.StructName})
	if err != nil {
		return ExpressionResult{}, err
	}
	if h.Kind != KindStruct {
		return ExpressionResult{}, errTypeMismatched("struct", h.String(), fmt.Sprintf("%q is not a record type", init.StructName))
	}
	if len(init.Fields) != len(h.Struct.Fields) {
		return ExpressionResult{}, errTypeMismatched(
			fmt.Sprintf("%d fields", len(h.Struct.Fields)), fmt.Sprintf("%d fields", len(init.Fields)),
			fmt.Sprintf("record initializer for %q", init.StructName))
	}
	values := make([]irmodule.Value, len(h.Struct.Fields))
	filled := make([]bool, len(h.Struct.Fields))
	for _, f := range init.Fields {
		idx, err := e.types.FieldOffset(h, f.Name)
		if err != nil {
			return ExpressionResult{}, err
		}
		v, err := e.readExpr(f.Value)
		if err != nil {
			return ExpressionResult{}, err
		}
		declaredType := h.Struct.Fields[idx].Type
		if !declaredType.Equals(v.Type) {
			return ExpressionResult{}, errTypeMismatched(declaredType.String(), v.Type.String(),
				fmt.Sprintf("field %q of %q", f.Name, init.StructName))
		}
		if filled[idx] {
			return ExpressionResult{}, errTypeMismatched("unique field", "duplicate field",
				fmt.Sprintf("field %q of %q supplied more than once", f.Name, init.StructName))
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
	agg := irmodule.ConstNamedStruct(e.types.SSAType(h), values)
	return RValueResult(agg, h), nil
}

// lowerUnary implements "+" as identity and "-" as a type-appropriate neg.
func (e *Engine) lowerUnary(u *ast.UnaryOperator) (ExpressionResult, error) {
	operand, err := e.readExpr(u.Operand)
	if err != nil {
		return ExpressionResult{}, err
	}
	switch u.Op {
	case "+":
		return operand, nil
	case "-":
		switch operand.Type.Kind {
		case KindInteger:
			return RValueResult(e.builder.Neg(operand.Val, ""), operand.Type), nil
		case KindFloat:
			return RValueResult(e.builder.FNeg(operand.Val, ""), operand.Type), nil
		default:
			return ExpressionResult{}, errNoSuitableBinaryOperator("-", operand.Type.String(), "")
		}
	default:
		return ExpressionResult{}, errNoSuitableBinaryOperator(u.Op, operand.Type.String(), "")
	}
}

// lowerBinary dispatches "=" to assign, "." to field access, and every
// other recognised operator to the type-appropriate arithmetic,
// comparison, or bitwise-logical opcode.
func (e *Engine) lowerBinary(b *ast.BinaryOperator) (ExpressionResult, error) {
	if b.Op == "=" {
		left, err := e.lowerExpr(b.Left)
		if err != nil {
			return ExpressionResult{}, err
		}
		right, err := e.lowerExpr(b.Right)
		if err != nil {
			return ExpressionResult{}, err
		}
		return e.assign(left, right)
	}
	if b.Op == "." {
		return e.lowerFieldAccess(b)
	}

	left, err := e.readExpr(b.Left)
	if err != nil {
		return ExpressionResult{}, err
	}
	right, err := e.readExpr(b.Right)
	if err != nil {
		return ExpressionResult{}, err
	}
	if !left.Type.Equals(right.Type) {
		return ExpressionResult{}, errTypeMismatched(left.Type.String(), right.Type.String(), fmt.Sprintf("operands of %q", b.Op))
	}
	return e.emitBinaryOp(b.Op, left, right)
}

func (e *Engine) emitBinaryOp(op string, left, right ExpressionResult) (ExpressionResult, error) {
	t := left.Type
	switch op {
	case "+", "-", "*", "/", "%":
		return e.emitArith(op, left, right, t)
	case "==", "!=", "<", "<=", ">", ">=":
		return e.emitCompare(op, left, right, t)
	case "&", "|", "^":
		return e.emitBitwise(op, left, right, t)
	default:
		return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
	}
}

func (e *Engine) emitArith(op string, left, right ExpressionResult, t *TypeHandle) (ExpressionResult, error) {
	isFloat := t.Kind == KindFloat
	isInt := t.Kind == KindInteger
	if !isFloat && !isInt {
		return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
	}
	var v irmodule.Value
	switch {
	case op == "+" && isFloat:
		v = e.builder.FAdd(left.Val, right.Val, "")
	case op == "+" && isInt:
		v = e.builder.Add(left.Val, right.Val, "")
	case op == "-" && isFloat:
		v = e.builder.FSub(left.Val, right.Val, "")
	case op == "-" && isInt:
		v = e.builder.Sub(left.Val, right.Val, "")
	case op == "*" && isFloat:
		v = e.builder.FMul(left.Val, right.Val, "")
	case op == "*" && isInt:
		v = e.builder.Mul(left.Val, right.Val, "")
	case op == "/" && isFloat:
		v = e.builder.FDiv(left.Val, right.Val, "")
	case op == "/" && isInt && t.Signed:
		v = e.builder.SDiv(left.Val, right.Val, "")
	case op == "/" && isInt && !t.Signed:
		v = e.builder.UDiv(left.Val, right.Val, "")
	case op == "%" && isInt && t.Signed:
		v = e.builder.SRem(left.Val, right.Val, "")
	case op == "%" && isInt && !t.Signed:
		v = e.builder.URem(left.Val, right.Val, "")
	default:
		return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
	}
	return RValueResult(v, t), nil
}

func (e *Engine) emitCompare(op string, left, right ExpressionResult, t *TypeHandle) (ExpressionResult, error) {
	if t.Kind == KindFloat {
		pred, ok := floatPredicates[op]
		if !ok {
			return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
		}
		v := e.builder.FCmp(pred, left.Val, right.Val, "")
		return RValueResult(v, boolHandle), nil
	}
	if t.Kind == KindInteger || t.Kind == KindBool {
		signed := t.Kind == KindInteger && t.Signed
		predTable := intPredicatesUnsigned
		if signed {
			predTable = intPredicatesSigned
		}
		pred, ok := predTable[op]
		if !ok {
			return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
		}
		v := e.builder.ICmp(pred, left.Val, right.Val, "")
		return RValueResult(v, boolHandle), nil
	}
	return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
}

var floatPredicates = map[string]irmodule.FloatPredicate{
	"==": irmodule.FloatOEQ,
	"!=": irmodule.FloatONE,
	"<":  irmodule.FloatOLT,
	"<=": irmodule.FloatOLE,
	">":  irmodule.FloatOGT,
	">=": irmodule.FloatOGE,
}

var intPredicatesSigned = map[string]irmodule.IntPredicate{
	"==": irmodule.IntEQ,
	"!=": irmodule.IntNE,
	"<":  irmodule.IntSLT,
	"<=": irmodule.IntSLE,
	">":  irmodule.IntSGT,
	">=": irmodule.IntSGE,
}

var intPredicatesUnsigned = map[string]irmodule.IntPredicate{
	"==": irmodule.IntEQ,
	"!=": irmodule.IntNE,
	"<":  irmodule.IntULT,
	"<=": irmodule.IntULE,
	">":  irmodule.IntUGT,
	">=": irmodule.IntUGE,
}

// emitBitwise implements &, |, ^ as bitwise ops on integers and booleans
// (logical &&/|| short-circuit is not part of this operator set).
func (e *Engine) emitBitwise(op string, left, right ExpressionResult, t *TypeHandle) (ExpressionResult, error) {
	if t.Kind != KindInteger && t.Kind != KindBool {
		return ExpressionResult{}, errNoSuitableBinaryOperator(op, t.String(), t.String())
	}
	var v irmodule.Value
	switch op {
	case "&":
		v = e.builder.And(left.Val, right.Val, "")
	case "|":
		v = e.builder.Or(left.Val, right.Val, "")
	case "^":
		v = e.builder.Xor(left.Val, right.Val, "")
	}
	return RValueResult(v, t), nil
}

// lowerFieldAccess implements dot-access: the left must be an LValue of
// record type, the right must already have parsed as a raw identifier.
func (e *Engine) lowerFieldAccess(b *ast.BinaryOperator) (ExpressionResult, error) {
	member, ok := b.Right.(*ast.Identifier)
	if !ok {
		return ExpressionResult{}, errNoSuitableBinaryOperator(".", "identifier", fmt.Sprintf("%T", b.Right))
	}
	left, err := e.lowerExpr(b.Left)
	if err != nil {
		return ExpressionResult{}, err
	}
	if left.Kind != KindLValue || left.Type.Kind != KindStruct {
		return ExpressionResult{}, errNoSuitableBinaryOperator(".", left.Type.String(), member.Name)
	}
	idx, err := e.types.FieldOffset(left.Type, member.Name)
	if err != nil {
		return ExpressionResult{}, err
	}
	fieldType := left.Type.Struct.Fields[idx].Type
	ptr := e.builder.StructFieldPtr(left.Ptr, idx, "")
	return LValueResult(ptr, fieldType), nil
}
