package derive

import (
	"go/parser"
	"go/scanner"
	"strings"

	"github.com/teranos/partialdefault/decl"
)

const (
	msgExpectedValue = `expected //partialdefault(value = "...")`
	msgBlankField    = "blank fields cannot be given a value"
)

// constructExpr builds the construction expression for the selected shape.
func constructExpr(d *decl.TypeDeclaration, sel *selection, opts Options) (string, error) {
	name := d.Name + d.TypeArgs()
	pointer := false
	if v := sel.variant; v != nil {
		name = v.Name
		if v.NumTypeParams > 0 {
			name += d.TypeArgs()
		}
		pointer = v.Pointer
	}

	values, err := fieldValues(sel.shape, opts)
	if err != nil {
		return "", err
	}

	var expr string
	switch sel.shape.Kind {
	case decl.Record, decl.Tuple:
		expr = name + "{" + strings.Join(values, ", ") + "}"
	case decl.Unit:
		expr = name + "{}"
	case decl.Newtype:
		conv := name + "(" + strings.Join(values, ", ") + ")"
		if pointer {
			// A conversion is not addressable
			return "func() *" + name + " { v := " + conv + "; return &v }()", nil
		}
		return conv, nil
	}

	if pointer {
		expr = "&" + expr
	}
	return expr, nil
}

// fieldValues returns one element per constructed field, in declaration order.
// Record elements are keyed; blank fields are left to their zero value.
func fieldValues(shape decl.Shape, opts Options) ([]string, error) {
	values := make([]string, 0, len(shape.Fields))
	for _, f := range shape.Fields {
		value, err := fieldExpr(f, opts)
		if err != nil {
			return nil, err
		}
		if f.Blank {
			continue
		}
		if shape.Kind == decl.Record {
			value = f.Name + ": " + value
		}
		values = append(values, value)
	}
	return values, nil
}

// fieldExpr returns the value override for f, or a recursive capability call
// for the field's type.
func fieldExpr(f decl.Field, opts Options) (string, error) {
	attr, err := FindAttr(f.Attrs)
	if err != nil {
		return "", err
	}
	if attr == nil {
		return opts.qualify("Value") + "[" + f.Type + "]()", nil
	}
	if attr.Kind != ValueOverride {
		return "", newDiagnostic(ErrAnnotationWrongPosition, f.Loc, msgExpectedValue)
	}
	if f.Blank {
		return "", newDiagnostic(ErrAnnotationWrongPosition, f.Loc, msgBlankField)
	}

	// The expression is trusted to type-check; only its syntax is checked here
	if _, err := parser.ParseExpr(attr.Text); err != nil {
		return "", newDiagnostic(ErrInvalidAnnotationSyntax, attr.TextLoc, "invalid value expression %q: %s", attr.Text, firstSyntaxError(err))
	}
	return attr.Text, nil
}

// firstSyntaxError strips positions that refer to the synthetic source the
// annotation text was parsed from.
func firstSyntaxError(err error) string {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return list[0].Msg
	}
	return err.Error()
}
