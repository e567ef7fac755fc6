package codegen

import (
	"fmt"

	"legen/internal/irmodule"
)

// ExprResultKind is the tag of an ExpressionResult.
type ExprResultKind int

const (
	KindLValue ExprResultKind = iota
	KindRValue
	KindUnit
)

// ExpressionResult is the central value-algebra datum every expression
// lowering produces: an addressable location, an immediate value, or
// nothing (a statement-valued expression).
type ExpressionResult struct {
	Kind ExprResultKind
	Ptr  irmodule.Value // valid iff Kind == KindLValue; pointer-to-Type
	Val  irmodule.Value // valid iff Kind == KindRValue
	Type *TypeHandle    // pointee type for LValue, value type for RValue
}

func LValueResult(ptr irmodule.Value, t *TypeHandle) ExpressionResult {
	return ExpressionResult{Kind: KindLValue, Ptr: ptr, Type: t}
}

func RValueResult(val irmodule.Value, t *TypeHandle) ExpressionResult {
	return ExpressionResult{Kind: KindRValue, Val: val, Type: t}
}

func UnitResult() ExpressionResult {
	return ExpressionResult{Kind: KindUnit}
}

// read is the first choke point: given an ExpressionResult, produce a bare
// RValue, emitting a load if the result was an address.
func (e *Engine) read(r ExpressionResult) (ExpressionResult, error) {
	switch r.Kind {
	case KindRValue:
		return r, nil
	case KindLValue:
		ssaTy := e.types.SSAType(r.Type)
		v := e.builder.Load(ssaTy, r.Ptr, "")
		return RValueResult(v, r.Type), nil
	case KindUnit:
		return ExpressionResult{}, errValueExpected("a unit-valued expression was used where a value is required")
	default:
		panic(fmt.Sprintf("codegen: unreachable ExpressionResult kind %d", r.Kind))
	}
}

// assign is the second choke point: left must already be an LValue; right
// is read to an RValue whose type must match exactly. Assignment is
// statement-valued — it returns Unit, not the stored value.
func (e *Engine) assign(left, right ExpressionResult) (ExpressionResult, error) {
	if left.Kind != KindLValue {
		return ExpressionResult{}, errValueExpected("assignment target is not an addressable location")
	}
	rv, err := e.read(right)
	if err != nil {
		return ExpressionResult{}, err
	}
	if !left.Type.Equals(rv.Type) {
		return ExpressionResult{}, errTypeMismatched(left.Type.String(), rv.Type.String(), "assignment")
	}
	e.builder.Store(rv.Val, left.Ptr)
	return UnitResult(), nil
}
