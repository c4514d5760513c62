package derive

import (
	"go/token"

	"github.com/teranos/partialdefault/decl"
)

// at returns a position in foo.go; column 3 is the first byte after "//".
func at(line int) token.Position {
	return token.Position{Filename: "foo.go", Line: line, Column: 3, Offset: line * 100}
}

func attrAt(line int, text string) decl.Attribute {
	return decl.Attribute{Text: text, Loc: at(line)}
}

func valueAttr(line int, expr string) decl.Attribute {
	return attrAt(line, `partialdefault(value = "`+expr+`")`)
}

func named(line int, name, typ string, attrs ...decl.Attribute) decl.Field {
	return decl.Field{Name: name, Type: typ, Attrs: attrs, Loc: at(line)}
}

func positional(line int, typ string, attrs ...decl.Attribute) decl.Field {
	return decl.Field{Type: typ, Embedded: true, Attrs: attrs, Loc: at(line)}
}

func variant(line int, name string, shape decl.Shape, attrs ...decl.Attribute) decl.Variant {
	return decl.Variant{Name: name, Shape: shape, Attrs: attrs, Loc: at(line)}
}

func record(fields ...decl.Field) decl.Shape {
	return decl.Shape{Kind: decl.Record, Fields: fields}
}

func tuple(fields ...decl.Field) decl.Shape {
	return decl.Shape{Kind: decl.Tuple, Fields: fields}
}

func unit() decl.Shape {
	return decl.Shape{Kind: decl.Unit}
}

func union(variants ...decl.Variant) decl.Shape {
	return decl.Shape{Kind: decl.Union, Variants: variants}
}
