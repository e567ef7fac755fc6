package codegen

import (
	"errors"
	"strings"
	"testing"

	"legen/internal/irmodule"
	"legen/internal/parser"
)

func compileSource(t *testing.T, src string) (*irmodule.Module, error) {
	t.Helper()
	tu, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	module := irmodule.New("test_module")
	err = Compile(module, tu)
	return module, err
}

// Scenario 1: straight return.
func TestCompileStraightReturn(t *testing.T) {
	module, err := compileSource(t, `fn f() -> i32 { return 42; }`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer module.Dispose()
	ir := module.String()
	if !strings.Contains(ir, "define") {
		t.Fatalf("expected a defined function in IR, got:\n%s", ir)
	}
}

// Scenario 2: if with early return compiles without error; the emitted
// block structure is not inspected here.
func TestCompileIfWithEarlyReturn(t *testing.T) {
	module, err := compileSource(t, `
fn g(x: i32) -> i32 {
	if (x == 0) {
		return 1;
	}
	return 2;
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer module.Dispose()
}

// Scenario 3: while countdown.
func TestCompileWhileCountdown(t *testing.T) {
	module, err := compileSource(t, `
fn h() {
	i: i32 = 10;
	while (i > 0) {
		i = i - 1;
	}
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer module.Dispose()
}

// Scenario 4: for sum.
func TestCompileForSum(t *testing.T) {
	module, err := compileSource(t, `
fn s() -> i32 {
	acc: i32 = 0;
	for (i: i32 = 0; i < 5; i = i + 1) {
		acc = acc + i;
	}
	return acc;
}`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer module.Dispose()
}

// Scenario 6: array of mixed types fails TypeMismatched.
func TestCompileArrayMixedTypesFails(t *testing.T) {
	_, err := compileSource(t, `fn f() { a: i32[2] = [1, 2.0]; }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != TypeMismatched {
		t.Fatalf("expected TypeMismatched, got %v", err)
	}
}

func TestCompileZeroLengthArrayFails(t *testing.T) {
	_, err := compileSource(t, `fn f() { a: i32[0] = []; }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != NotAllowZeroLengthArray {
		t.Fatalf("expected NotAllowZeroLengthArray, got %v", err)
	}
}

func TestCompileNonBooleanConditionFails(t *testing.T) {
	_, err := compileSource(t, `fn f() { if (1) { return; } }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != TypeMismatched {
		t.Fatalf("expected TypeMismatched for non-bool condition, got %v", err)
	}
}

func TestCompileAssignIntoRValueFails(t *testing.T) {
	_, err := compileSource(t, `fn f() { 1 = 2; }`)
	if err == nil {
		t.Fatal("expected assignment into an r-value to fail")
	}
}

func TestCompileUndeclaredIdentifierFails(t *testing.T) {
	_, err := compileSource(t, `fn f() -> i32 { return missing; }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCompileCallArityMismatchFails(t *testing.T) {
	_, err := compileSource(t, `
fn add(a: i32, b: i32) -> i32 { return a + b; }
fn main() -> i32 { return add(1); }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != ArgumentMismatch {
		t.Fatalf("expected ArgumentMismatch, got %v", err)
	}
}

// Scenario 5: record init permutation (P5) — both orderings compile, and
// since the aggregate is built by declaration-order index rather than
// source order, both modules store the same constant { i32 1, i32 2 }.
func TestCompileRecordInitPermutationInvariant(t *testing.T) {
	src1 := `
struct P { x: i32; y: i32; }
fn f() -> i32 { p: P = P{x: 1, y: 2}; return p.x; }`
	src2 := `
struct P { x: i32; y: i32; }
fn f() -> i32 { p: P = P{y: 2, x: 1}; return p.x; }`

	m1, err := compileSource(t, src1)
	if err != nil {
		t.Fatalf("compile src1: %v", err)
	}
	defer m1.Dispose()
	m2, err := compileSource(t, src2)
	if err != nil {
		t.Fatalf("compile src2: %v", err)
	}
	defer m2.Dispose()

	const agg = "{ i32 1, i32 2 }"
	if ir1, ir2 := m1.String(), m2.String(); !strings.Contains(ir1, agg) || !strings.Contains(ir2, agg) {
		t.Fatalf("expected both modules to store %s, got:\n%s\n---\n%s", agg, ir1, ir2)
	}
}

func TestCompileRecordInitMissingFieldFails(t *testing.T) {
	_, err := compileSource(t, `
struct P { x: i32; y: i32; }
fn f() -> i32 { p: P = P{x: 1}; return p.x; }`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != TypeMismatched {
		t.Fatalf("expected TypeMismatched for missing field, got %v", err)
	}
}

func TestCompileGlobalNonConstantFails(t *testing.T) {
	_, err := compileSource(t, `
fn helper() -> i32 { return 1; }
g: i32 = helper();`)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != NonConstantGlobal {
		t.Fatalf("expected NonConstantGlobal, got %v", err)
	}
}

func TestCompileDotAccessAndExternAndGlobal(t *testing.T) {
	module, err := compileSource(t, `
struct Point { x: i32; y: i32; }
extern fn puts(s: i32) -> i32;
origin: Point = Point{x: 0, y: 0};
fn getx(p: Point) -> i32 { return p.x; }`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer module.Dispose()
}
