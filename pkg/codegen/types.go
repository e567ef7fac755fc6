package codegen

import (
	"fmt"

	"legen/internal/ast"
	"legen/internal/irmodule"
)

// TypeKind is the tag of a TypeHandle's variant.
type TypeKind int

const (
	KindInteger TypeKind = iota
	KindFloat
	KindBool
	KindPointer
	KindArray
	KindVector
	KindStruct
)

// TypeHandle is an interned, comparable reference to a source type, per
// the Integer/Float/Bool/Pointer/Array/Vector/Struct variants.
type TypeHandle struct {
	Kind    TypeKind
	Width   int  // Integer, Float
	Signed  bool // Integer
	Pointee *TypeHandle
	Element *TypeHandle // Array, Vector
	N       int         // Array, Vector
	Struct  *StructDef  // Struct
}

// StructField is one named, typed, declaration-ordered member of a record.
type StructField struct {
	Name string
	Type *TypeHandle
}

// StructDef is the materialised layout of a declared record type.
type StructDef struct {
	Name   string
	Fields []StructField
}

func (h *TypeHandle) String() string {
	switch h.Kind {
	case KindInteger:
		sign := "i"
		if !h.Signed {
			sign = "u"
		}
		return fmt.Sprintf("%s%d", sign, h.Width)
	case KindFloat:
		if h.Width == 32 {
			return "float"
		}
		return "double"
	case KindBool:
		return "bool"
	case KindPointer:
		return "*" + h.Pointee.String()
	case KindArray:
		return fmt.Sprintf("%s[%d]", h.Element, h.N)
	case KindVector:
		return fmt.Sprintf("%s<%d>", h.Element, h.N)
	case KindStruct:
		return "struct " + h.Struct.Name
	default:
		return "?"
	}
}

// Equals implements the structural-for-primitives/nominal-for-records rule.
func (h *TypeHandle) Equals(other *TypeHandle) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.Kind != other.Kind {
		return false
	}
	switch h.Kind {
	case KindInteger:
		return h.Width == other.Width && h.Signed == other.Signed
	case KindFloat:
		return h.Width == other.Width
	case KindBool:
		return true
	case KindPointer:
		return h.Pointee.Equals(other.Pointee)
	case KindArray, KindVector:
		return h.N == other.N && h.Element.Equals(other.Element)
	case KindStruct:
		return h.Struct == other.Struct // nominal: same declaration
	default:
		return false
	}
}

var (
	boolHandle   = &TypeHandle{Kind: KindBool}
	floatHandle  = &TypeHandle{Kind: KindFloat, Width: 32}
	doubleHandle = &TypeHandle{Kind: KindFloat, Width: 64}
)

func intHandle(width int, signed bool) *TypeHandle {
	return &TypeHandle{Kind: KindInteger, Width: width, Signed: signed}
}

// primitiveNames maps the source-level type identifiers this repository
// pre-interns to their resolved handle. "int" is the literal-defaulting
// default (32-bit signed).
var primitiveNames = map[string]*TypeHandle{
	"bool":   boolHandle,
	"int":    intHandle(32, true),
	"i8":     intHandle(8, true),
	"i16":    intHandle(16, true),
	"i32":    intHandle(32, true),
	"i64":    intHandle(64, true),
	"u8":     intHandle(8, false),
	"u16":    intHandle(16, false),
	"u32":    intHandle(32, false),
	"u64":    intHandle(64, false),
	"float":  floatHandle,
	"double": doubleHandle,
}

// TypeRegistry owns the mapping from source type declarators to interned
// SSA-layer types and materialises record layouts.
type TypeRegistry struct {
	structs    map[string]*TypeHandle
	ssaStructs map[string]irmodule.Type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		structs:    make(map[string]*TypeHandle),
		ssaStructs: make(map[string]irmodule.Type),
	}
}

// DeclareStruct materialises and interns a record type. Field types must
// already be resolved when it is called: Compile resolves each record's
// fields before declaring that record, so a field can name only primitives
// and records declared earlier in the unit. A record cannot refer to
// itself or to a later record, not even through a pointer field.
func (r *TypeRegistry) DeclareStruct(name string, fields []StructField) (*TypeHandle, error) {
	if _, exists := r.structs[name]; exists {
		return nil, errRedefinition(fmt.Sprintf("struct %q already declared", name))
	}
	def := &StructDef{Name: name, Fields: fields}
	h := &TypeHandle{Kind: KindStruct, Struct: def}
	r.structs[name] = h
	return h, nil
}

// Resolve turns a syntactic type declarator into an interned type handle.
func (r *TypeRegistry) Resolve(decl ast.TypeDeclarator) (*TypeHandle, error) {
	switch d := decl.(type) {
	case *ast.TypeIdentifier:
		if h, ok := primitiveNames[d.Name]; ok {
			return h, nil
		}
		if h, ok := r.structs[d.Name]; ok {
			return h, nil
		}
		return nil, errTypeNotFound(fmt.Sprintf("unknown type %q", d.Name))
	case *ast.Pointer:
		pointee, err := r.Resolve(d.Pointee)
		if err != nil {
			return nil, err
		}
		return &TypeHandle{Kind: KindPointer, Pointee: pointee}, nil
	case *ast.Array:
		elem, err := r.Resolve(d.Element)
		if err != nil {
			return nil, err
		}
		return &TypeHandle{Kind: KindArray, Element: elem, N: d.N}, nil
	case *ast.Vector:
		elem, err := r.Resolve(d.Element)
		if err != nil {
			return nil, err
		}
		return &TypeHandle{Kind: KindVector, Element: elem, N: d.N}, nil
	default:
		return nil, errTypeNotFound(fmt.Sprintf("unrecognised type declarator %T", decl))
	}
}

// FieldOffset returns the zero-based declaration-order index of fieldName
// within the record handle.
func (r *TypeRegistry) FieldOffset(h *TypeHandle, fieldName string) (int, error) {
	if h.Kind != KindStruct {
		return 0, errTypeMismatched("struct", h.String(), "field access on non-record type")
	}
	for i, f := range h.Struct.Fields {
		if f.Name == fieldName {
			return i, nil
		}
	}
	return 0, errUnknownField(fmt.Sprintf("no field %q on struct %q", fieldName, h.Struct.Name))
}

// SSAType lowers a resolved type handle to its SSA-layer representation.
// Struct lowering is memoized per name so repeated references to the same
// record share one named LLVM struct type.
func (r *TypeRegistry) SSAType(h *TypeHandle) irmodule.Type {
	switch h.Kind {
	case KindInteger:
		return irmodule.IntType(h.Width)
	case KindFloat:
		return irmodule.FloatType(h.Width)
	case KindBool:
		return irmodule.BoolType()
	case KindPointer:
		return irmodule.PointerType(r.SSAType(h.Pointee))
	case KindArray:
		return irmodule.ArrayType(r.SSAType(h.Element), h.N)
	case KindVector:
		return irmodule.VectorType(r.SSAType(h.Element), h.N)
	case KindStruct:
		if t, ok := r.ssaStructs[h.Struct.Name]; ok {
			return t
		}
		fieldTypes := make([]irmodule.Type, len(h.Struct.Fields))
		for i, f := range h.Struct.Fields {
			fieldTypes[i] = r.SSAType(f.Type)
		}
		t := irmodule.NamedStructType(h.Struct.Name, fieldTypes)
		r.ssaStructs[h.Struct.Name] = t
		return t
	default:
		panic(fmt.Sprintf("codegen: unresolved type kind %d reached SSAType", h.Kind))
	}
}
