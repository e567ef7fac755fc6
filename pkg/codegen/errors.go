package codegen

import "fmt"

// ErrorKind classifies a CodegenError without relying on string matching.
type ErrorKind int

const (
	TypeMismatched ErrorKind = iota
	TypeNotFound
	UnknownField
	NotFound
	Redefinition
	ArgumentMismatch
	NoSuitableBinaryOperator
	NotAllowZeroLengthArray
	ValueExpected
	NonConstantGlobal
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatched:
		return "TypeMismatched"
	case TypeNotFound:
		return "TypeNotFound"
	case UnknownField:
		return "UnknownField"
	case NotFound:
		return "NotFound"
	case Redefinition:
		return "Redefinition"
	case ArgumentMismatch:
		return "ArgumentMismatch"
	case NoSuitableBinaryOperator:
		return "NoSuitableBinaryOperator"
	case NotAllowZeroLengthArray:
		return "NotAllowZeroLengthArray"
	case ValueExpected:
		return "ValueExpected"
	case NonConstantGlobal:
		return "NonConstantGlobal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// CodegenError is the single structured error type the lowering engine
// raises. Callers use errors.As to recover it and inspect Kind.
type CodegenError struct {
	Kind   ErrorKind
	Expect string // populated for TypeMismatched; left operand for NoSuitableBinaryOperator
	Found  string // populated for TypeMismatched; right operand for NoSuitableBinaryOperator
	Op     string // populated for NoSuitableBinaryOperator
	Detail string // free-form human-readable context
	Err    error  // wrapped cause, if any
}

func (e *CodegenError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Expect != "" || e.Found != "" {
		msg = fmt.Sprintf("%s (expect=%s, found=%s)", msg, e.Expect, e.Found)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s (op=%s)", msg, e.Op)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CodegenError) Unwrap() error { return e.Err }

func errTypeMismatched(expect, found, detail string) error {
	return &CodegenError{Kind: TypeMismatched, Expect: expect, Found: found, Detail: detail}
}

func errTypeNotFound(detail string) error {
	return &CodegenError{Kind: TypeNotFound, Detail: detail}
}

func errUnknownField(detail string) error {
	return &CodegenError{Kind: UnknownField, Detail: detail}
}

func errNotFound(detail string) error {
	return &CodegenError{Kind: NotFound, Detail: detail}
}

func errRedefinition(detail string) error {
	return &CodegenError{Kind: Redefinition, Detail: detail}
}

func errArgumentMismatch(detail string) error {
	return &CodegenError{Kind: ArgumentMismatch, Detail: detail}
}

func errNoSuitableBinaryOperator(op, left, right string) error {
	return &CodegenError{Kind: NoSuitableBinaryOperator, Op: op, Expect: left, Found: right}
}

func errNotAllowZeroLengthArray() error {
	return &CodegenError{Kind: NotAllowZeroLengthArray}
}

func errValueExpected(detail string) error {
	return &CodegenError{Kind: ValueExpected, Detail: detail}
}

func errNonConstantGlobal(detail string) error {
	return &CodegenError{Kind: NonConstantGlobal, Detail: detail}
}
