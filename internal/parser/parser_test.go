package parser

import (
	"testing"

	"legen/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.TranslationUnit {
	t.Helper()
	tu, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return tu
}

func TestParseStraightReturn(t *testing.T) {
	tu := mustParse(t, `fn f() -> i32 { return 42; }`)
	if len(tu.FunctionDefs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(tu.FunctionDefs))
	}
	fn := tu.FunctionDefs[0]
	if fn.Prototype.Name != "f" {
		t.Fatalf("expected name f, got %s", fn.Prototype.Name)
	}
	if len(fn.CodeBlock) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.CodeBlock))
	}
	ret, ok := fn.CodeBlock[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.CodeBlock[0])
	}
	lit, ok := ret.Expr.(*ast.NumberLiteral)
	if !ok || lit.Int != 42 {
		t.Fatalf("expected NumberLiteral(42), got %#v", ret.Expr)
	}
}

func TestParseIfWithEarlyReturn(t *testing.T) {
	tu := mustParse(t, `fn g(x: i32) -> i32 { if (x == 0) { return 1; } return 2; }`)
	fn := tu.FunctionDefs[0]
	if len(fn.CodeBlock) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(fn.CodeBlock))
	}
	ifStmt, ok := fn.CodeBlock[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", fn.CodeBlock[0])
	}
	cond, ok := ifStmt.Condition.(*ast.BinaryOperator)
	if !ok || cond.Op != "==" {
		t.Fatalf("expected == condition, got %#v", ifStmt.Condition)
	}
	if ifStmt.Else != nil {
		t.Fatalf("expected no else clause")
	}
}

func TestParseWhileCountdown(t *testing.T) {
	tu := mustParse(t, `fn h() { i: i32 = 10; while (i > 0) { i = i - 1; } }`)
	fn := tu.FunctionDefs[0]
	if fn.Prototype.ReturnType != nil {
		t.Fatalf("expected void return type")
	}
	if _, ok := fn.CodeBlock[0].(*ast.VariableDefinition); !ok {
		t.Fatalf("expected VariableDefinition, got %T", fn.CodeBlock[0])
	}
	wl, ok := fn.CodeBlock[1].(*ast.WhileLoop)
	if !ok {
		t.Fatalf("expected WhileLoop, got %T", fn.CodeBlock[1])
	}
	if len(wl.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(wl.Body))
	}
}

func TestParseForSum(t *testing.T) {
	tu := mustParse(t, `fn s() -> i32 {
		acc: i32 = 0;
		for (i: i32 = 0; i < 5; i = i + 1) {
			acc = acc + i;
		}
		return acc;
	}`)
	fn := tu.FunctionDefs[0]
	forLoop, ok := fn.CodeBlock[1].(*ast.ForLoop)
	if !ok {
		t.Fatalf("expected ForLoop, got %T", fn.CodeBlock[1])
	}
	if _, ok := forLoop.Init.(*ast.VariableDefinition); !ok {
		t.Fatalf("expected init VariableDefinition, got %T", forLoop.Init)
	}
	if forLoop.Cond == nil || forLoop.Post == nil {
		t.Fatalf("expected non-nil cond and post")
	}
}

func TestParseStructAndInitializer(t *testing.T) {
	tu := mustParse(t, `
		struct P { x: i32; y: i32; }
		fn make() -> P { return P{x: 1, y: 2}; }
	`)
	if len(tu.GlobalStructures) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(tu.GlobalStructures))
	}
	s := tu.GlobalStructures[0]
	if s.Name != "P" || len(s.Fields) != 2 {
		t.Fatalf("unexpected struct decl %#v", s)
	}
	ret := tu.FunctionDefs[0].CodeBlock[0].(*ast.ReturnStmt)
	init, ok := ret.Expr.(*ast.StructureInitializer)
	if !ok || init.StructName != "P" || len(init.Fields) != 2 {
		t.Fatalf("expected StructureInitializer, got %#v", ret.Expr)
	}
}

func TestParseDotAccessAndExternAndGlobal(t *testing.T) {
	tu := mustParse(t, `
		extern fn putchar(c: i32) -> i32;
		count: i32 = 0;
		fn area(p: Rect) -> i32 { return p.w * p.h; }
	`)
	if len(tu.ExternFunctions) != 1 || tu.ExternFunctions[0].Name != "putchar" {
		t.Fatalf("expected 1 extern putchar, got %#v", tu.ExternFunctions)
	}
	if len(tu.GlobalVariables) != 1 || tu.GlobalVariables[0].Prototype.Name != "count" {
		t.Fatalf("expected 1 global count, got %#v", tu.GlobalVariables)
	}
	ret := tu.FunctionDefs[0].CodeBlock[0].(*ast.ReturnStmt)
	mul, ok := ret.Expr.(*ast.BinaryOperator)
	if !ok || mul.Op != "*" {
		t.Fatalf("expected top-level '*', got %#v", ret.Expr)
	}
	left, ok := mul.Left.(*ast.BinaryOperator)
	if !ok || left.Op != "." {
		t.Fatalf("expected dot access on left, got %#v", mul.Left)
	}
}

func TestParseArrayInitializerRejectsTrailingComma(t *testing.T) {
	_, err := Parse(`fn f() { a: i32[3] = [1, 2, 3,]; }`)
	if err == nil {
		t.Fatalf("expected parse error for trailing comma")
	}
}
