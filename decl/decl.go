// Package decl defines the declaration model handed to the derive pipeline.
//
// A TypeDeclaration is built once per generated type by a frontend (package
// source for Go code) and is read-only afterwards. Positions are kept as
// token.Position so diagnostics can be reported without the original FileSet.
package decl

import (
	"go/token"
	"strings"
)

// AttrName is the single annotation name recognized by the generator.
const AttrName = "partialdefault"

// ShapeKind classifies the structure of a declaration or variant.
type ShapeKind int

const (
	// Record is a struct with named fields: T{A: a, B: b}
	Record ShapeKind = iota
	// Tuple is a struct whose fields are all positional: T{a, b}
	Tuple
	// Unit is a struct without fields: T{}
	Unit
	// Newtype is a defined type over a non-struct type: T(a)
	Newtype
	// Union is a sealed interface together with its variant types
	Union
	// Unsupported shapes are always rejected
	Unsupported
)

func (k ShapeKind) String() string {
	switch k {
	case Record:
		return "record"
	case Tuple:
		return "tuple"
	case Unit:
		return "unit"
	case Newtype:
		return "newtype"
	case Union:
		return "union"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// TypeDeclaration is one type to generate a partial default for.
type TypeDeclaration struct {
	Name       string
	TypeParams []TypeParam
	Shape      Shape
	Attrs      []Attribute
	Loc        token.Position
}

// Pos returns the location of the type name.
func (d *TypeDeclaration) Pos() token.Position { return d.Loc }

// TypeArgs returns the instantiation suffix for the declaration's own
// parameters, e.g. "[K, V]", or "" for non-generic types.
func (d *TypeDeclaration) TypeArgs() string {
	if len(d.TypeParams) == 0 {
		return ""
	}
	names := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// HasTypeParam reports whether name is one of the declared type parameters.
func (d *TypeDeclaration) HasTypeParam(name string) bool {
	for _, p := range d.TypeParams {
		if p.Name == name {
			return true
		}
	}
	return false
}

// TypeParam is a declared type parameter and its constraint as written.
type TypeParam struct {
	Name       string
	Constraint string
}

// Shape is the structure of a declaration or of a union variant.
type Shape struct {
	Kind ShapeKind

	// Fields for Record, Tuple and Newtype (exactly one field)
	Fields []Field

	// Variants for Union, in declaration order
	Variants []Variant

	// Reason explains an Unsupported shape
	Reason string
}

// Variant is one member type of a sealed-interface union.
type Variant struct {
	Name          string
	NumTypeParams int

	// Pointer is set when the sealing method has a pointer receiver,
	// so only *Name is a member of the union.
	Pointer bool

	Shape Shape
	Attrs []Attribute
	Loc   token.Position
}

// Pos returns the location of the variant's type name.
func (v Variant) Pos() token.Position { return v.Loc }

// Field is a struct field, or the underlying value of a newtype.
type Field struct {
	// Name is empty for positional fields
	Name     string
	Embedded bool
	Blank    bool

	// Type is the field type as written in source
	Type  string
	Attrs []Attribute
	Loc   token.Position
}

// Pos returns the location of the field.
func (f Field) Pos() token.Position { return f.Loc }

// Attribute is a raw comment directive attached to a type, variant or field.
// Text is the comment without its leading "//"; Loc points at Text[0].
type Attribute struct {
	Text string
	Loc  token.Position
}

// Pos returns the location of the first byte of the directive text.
func (a Attribute) Pos() token.Position { return a.Loc }

// PosAt returns the location of byte offset off within Text.
// Directives are single-line comments, so the column advances with the offset.
func (a Attribute) PosAt(off int) token.Position {
	p := a.Loc
	if !p.IsValid() {
		return p
	}
	p.Offset += off
	p.Column += off
	return p
}

// Is reports whether the attribute uses the recognized annotation name.
// The name must be followed by the end of the text, "(", "=" or whitespace,
// so tool directives such as "partialdefault:derive" are not attributes.
func (a Attribute) Is() bool {
	rest, ok := strings.CutPrefix(a.Text, AttrName)
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	switch rest[0] {
	case '(', '=', ' ', '\t':
		return true
	}
	return false
}
