package codegen

import (
	"errors"
	"testing"

	"legen/internal/ast"
)

func TestTypeRegistryResolvePrimitives(t *testing.T) {
	r := NewTypeRegistry()

	cases := []struct {
		name string
		kind TypeKind
	}{
		{"bool", KindBool},
		{"int", KindInteger},
		{"i64", KindInteger},
		{"u8", KindInteger},
		{"float", KindFloat},
		{"double", KindFloat},
	}
	for _, c := range cases {
		h, err := r.Resolve(&ast.TypeIdentifier{Name: c.name})
		if err != nil {
			t.Fatalf("resolve %q: %v", c.name, err)
		}
		if h.Kind != c.kind {
			t.Errorf("resolve %q: expected kind %v, got %v", c.name, c.kind, h.Kind)
		}
	}
}

func TestTypeRegistryResolveUnknownFails(t *testing.T) {
	r := NewTypeRegistry()
	_, err := r.Resolve(&ast.TypeIdentifier{Name: "Widget"})
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != TypeNotFound {
		t.Fatalf("expected TypeNotFound, got %v", err)
	}
}

func TestTypeRegistryComposites(t *testing.T) {
	r := NewTypeRegistry()
	h, err := r.Resolve(&ast.Array{Element: &ast.TypeIdentifier{Name: "i32"}, N: 4})
	if err != nil {
		t.Fatalf("resolve array: %v", err)
	}
	if h.Kind != KindArray || h.N != 4 || h.Element.Kind != KindInteger {
		t.Fatalf("unexpected array handle: %+v", h)
	}

	p, err := r.Resolve(&ast.Pointer{Pointee: &ast.TypeIdentifier{Name: "bool"}})
	if err != nil {
		t.Fatalf("resolve pointer: %v", err)
	}
	if p.Kind != KindPointer || p.Pointee.Kind != KindBool {
		t.Fatalf("unexpected pointer handle: %+v", p)
	}
}

func TestTypeRegistryDeclareStructAndRedefinition(t *testing.T) {
	r := NewTypeRegistry()
	fields := []StructField{{Name: "x", Type: intHandle(32, true)}, {Name: "y", Type: intHandle(32, true)}}
	h, err := r.DeclareStruct("Point", fields)
	if err != nil {
		t.Fatalf("declare struct: %v", err)
	}
	if h.Kind != KindStruct || h.Struct.Name != "Point" {
		t.Fatalf("unexpected struct handle: %+v", h)
	}

	_, err = r.DeclareStruct("Point", fields)
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != Redefinition {
		t.Fatalf("expected Redefinition on second declare, got %v", err)
	}
}

func TestTypeRegistryFieldOffset(t *testing.T) {
	r := NewTypeRegistry()
	h, _ := r.DeclareStruct("Point", []StructField{
		{Name: "x", Type: intHandle(32, true)},
		{Name: "y", Type: intHandle(32, true)},
	})
	idx, err := r.FieldOffset(h, "y")
	if err != nil || idx != 1 {
		t.Fatalf("expected offset 1 for y, got %d err=%v", idx, err)
	}
	_, err = r.FieldOffset(h, "z")
	var ce *CodegenError
	if !errors.As(err, &ce) || ce.Kind != UnknownField {
		t.Fatalf("expected UnknownField, got %v", err)
	}
}

func TestTypeHandleEquality(t *testing.T) {
	a := intHandle(32, true)
	b := intHandle(32, true)
	c := intHandle(32, false)
	if !a.Equals(b) {
		t.Error("two i32 signed handles should be structurally equal")
	}
	if a.Equals(c) {
		t.Error("i32 signed and i32 unsigned must not be equal")
	}

	r := NewTypeRegistry()
	s1, _ := r.DeclareStruct("A", nil)
	s2 := &TypeHandle{Kind: KindStruct, Struct: &StructDef{Name: "A"}}
	if s1.Equals(s2) {
		t.Error("record equality must be nominal (by declaration identity), not by name")
	}
	if !s1.Equals(s1) {
		t.Error("a struct handle must equal itself")
	}
}
