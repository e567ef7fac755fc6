// Package ast defines the tree shape the lowering engine consumes: a
// translation unit made of record declarations, global variables, external
// prototypes, and function definitions, built from expressions, statements,
// and type declarators.
package ast

import "fmt"

// TranslationUnit is the root of a parsed LE source file.
type TranslationUnit struct {
	GlobalVariables   []*Variable
	GlobalStructures  []*StructDecl
	ExternFunctions   []*FunctionPrototype
	FunctionDefs      []*FunctionDefinition
}

// FunctionDefinition is a function prototype paired with its parameter
// names and body.
type FunctionDefinition struct {
	Prototype  *FunctionPrototype
	ParamNames []string
	CodeBlock  []Stmt
}

// FunctionPrototype names a function, its parameter types, and an optional
// return type (nil means void).
type FunctionPrototype struct {
	Name       string
	ParamTypes []TypeDeclarator
	ReturnType TypeDeclarator // nil for void
}

// VariablePrototype is the name half of a declaration, with an optional
// explicit type declarator (nil means "infer from the initializer").
type VariablePrototype struct {
	Name           string
	TypeDeclarator TypeDeclarator // may be nil
}

// Variable is a top-level or local binding: a prototype plus its
// initializing expression.
type Variable struct {
	Prototype VariablePrototype
	Value     Expr
}

// StructDecl declares a record type with its fields in declaration order.
type StructDecl struct {
	Name   string
	Fields []FieldDecl
}

// FieldDecl is one named, typed member of a StructDecl.
type FieldDecl struct {
	Name string
	Type TypeDeclarator
}

// TypeDeclarator is the unresolved, syntactic description of a type as
// written in source. The Type Registry resolves these to type handles.
type TypeDeclarator interface {
	typeDeclaratorNode()
	String() string
}

// TypeIdentifier names a primitive or a record by its source identifier.
type TypeIdentifier struct {
	Name string
}

func (*TypeIdentifier) typeDeclaratorNode() {}
func (t *TypeIdentifier) String() string    { return t.Name }

// Pointer declares a pointer-to-Pointee type.
type Pointer struct {
	Pointee TypeDeclarator
}

func (*Pointer) typeDeclaratorNode() {}
func (p *Pointer) String() string    { return fmt.Sprintf("*%s", p.Pointee) }

// Array declares a fixed-length array of N elements of Element type.
type Array struct {
	Element TypeDeclarator
	N       int
}

func (*Array) typeDeclaratorNode() {}
func (a *Array) String() string    { return fmt.Sprintf("%s[%d]", a.Element, a.N) }

// Vector declares a fixed-width SIMD vector of N lanes of Element type.
type Vector struct {
	Element TypeDeclarator
	N       int
}

func (*Vector) typeDeclaratorNode() {}
func (v *Vector) String() string    { return fmt.Sprintf("%s<%d>", v.Element, v.N) }

// Expr is implemented by every node that lowers to an ExpressionResult.
type Expr interface {
	exprNode()
	String() string
}

// UnaryOperator represents Op Operand, e.g. -x or +x.
type UnaryOperator struct {
	Op      string
	Operand Expr
}

func (*UnaryOperator) exprNode() {}
func (u *UnaryOperator) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand)
}

// BinaryOperator represents Left Op Right, including assignment ("="),
// arithmetic, comparison, bitwise-logical and dot-access.
type BinaryOperator struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryOperator) exprNode() {}
func (b *BinaryOperator) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// NumberLiteral is an integer or floating-point constant.
type NumberLiteral struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func (*NumberLiteral) exprNode() {}
func (n *NumberLiteral) String() string {
	if n.IsFloat {
		return fmt.Sprintf("%g", n.Float)
	}
	return fmt.Sprintf("%d", n.Int)
}

// CallExpression represents Callee(Args...).
type CallExpression struct {
	Callee string
	Args   []Expr
}

func (*CallExpression) exprNode() {}
func (c *CallExpression) String() string {
	return fmt.Sprintf("%s(%v)", c.Callee, c.Args)
}

// Identifier is a bare name reference: a variable, a function, or the
// literals true/false.
type Identifier struct {
	Name string
}

func (*Identifier) exprNode()        {}
func (i *Identifier) String() string { return i.Name }

// ArrayInitializer represents a square-bracketed list of element
// expressions, e.g. [1, 2, 3].
type ArrayInitializer struct {
	Elements []Expr
}

func (*ArrayInitializer) exprNode() {}
func (a *ArrayInitializer) String() string {
	return fmt.Sprintf("[%v]", a.Elements)
}

// StructureInitializer represents a named-field initializer for a record
// type, e.g. Point{x: 1, y: 2}.
type StructureInitializer struct {
	StructName string
	Fields     []StructureFieldInit
}

// StructureFieldInit is one (name, value) pair of a StructureInitializer.
type StructureFieldInit struct {
	Name  string
	Value Expr
}

func (*StructureInitializer) exprNode() {}
func (s *StructureInitializer) String() string {
	return fmt.Sprintf("%s{%v}", s.StructName, s.Fields)
}

// Stmt is implemented by every statement-level node.
type Stmt interface {
	stmtNode()
	String() string
}

// ExpressionStmt lowers an expression and discards its result.
type ExpressionStmt struct {
	Expr Expr
}

func (*ExpressionStmt) stmtNode() {}
func (e *ExpressionStmt) String() string {
	return fmt.Sprintf("ExpressionStmt(%s)", e.Expr)
}

// ReturnStmt lowers Expr (nil for a bare "return;" in a void function) and
// jumps to the function's return block.
type ReturnStmt struct {
	Expr Expr // nil for void return
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// IfStmt represents if (Condition) Then [else Else].
type IfStmt struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil if no else-clause
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	return fmt.Sprintf("IfStmt(%s, then=%d, else=%d)", i.Condition, len(i.Then), len(i.Else))
}

// WhileLoop represents while (Condition) Body. Condition is nil for an
// infinite loop.
type WhileLoop struct {
	Condition Expr
	Body      []Stmt
}

func (*WhileLoop) stmtNode() {}
func (w *WhileLoop) String() string {
	return fmt.Sprintf("WhileLoop(%s, body=%d)", w.Condition, len(w.Body))
}

// ForLoop represents for (Init; Cond; Post) Body.
type ForLoop struct {
	Init Stmt // commonly a VariableDefinition
	Cond Expr
	Post Stmt
	Body []Stmt
}

func (*ForLoop) stmtNode() {}
func (f *ForLoop) String() string {
	return fmt.Sprintf("ForLoop(init=%s, cond=%s, post=%s, body=%d)", f.Init, f.Cond, f.Post, len(f.Body))
}

// VariableDefinition declares and initializes a local variable.
type VariableDefinition struct {
	Variable *Variable
}

func (*VariableDefinition) stmtNode() {}
func (v *VariableDefinition) String() string {
	return fmt.Sprintf("VariableDefinition(%s)", v.Variable.Prototype.Name)
}

// Void is the empty statement; it lowers to nothing.
type Void struct{}

func (*Void) stmtNode()        {}
func (*Void) String() string   { return "Void" }
