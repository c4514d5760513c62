package derive

import (
	"github.com/teranos/partialdefault/decl"
)

const (
	msgMultipleVariants = "only one variant can be marked //partialdefault"
	msgVariantValue     = "//partialdefault on variants must carry no value"
)

// selection is the shape chosen for construction. For unions it is the
// marked variant's shape and variant is set.
type selection struct {
	shape   decl.Shape
	variant *decl.Variant
}

// selectShape picks the shape to construct for d.
func selectShape(d *decl.TypeDeclaration) (*selection, error) {
	switch d.Shape.Kind {
	case decl.Record, decl.Tuple, decl.Unit, decl.Newtype:
		return &selection{shape: d.Shape}, nil

	case decl.Union:
		v, ok, err := FindOnly(d.Shape.Variants, msgMultipleVariants, isDefaultVariant)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, newDiagnostic(ErrNoDefaultVariant, d.Loc, "no default variant: mark one variant of %s with //partialdefault", d.Name)
		}
		if err := checkVariant(d, &v); err != nil {
			return nil, err
		}
		return &selection{shape: v.Shape, variant: &v}, nil

	default:
		reason := d.Shape.Reason
		if reason == "" {
			reason = d.Shape.Kind.String() + " types"
		}
		return nil, newDiagnostic(ErrUnsupportedShape, d.Loc, "cannot derive PartialDefault for %s", reason)
	}
}

// isDefaultVariant reports whether v carries the marker. Any other annotation
// form on a variant is an error of its own.
func isDefaultVariant(v decl.Variant) (bool, error) {
	attr, err := FindAttr(v.Attrs)
	if err != nil || attr == nil {
		return false, err
	}
	if attr.Kind != Marker {
		return false, newDiagnostic(ErrAnnotationWrongPosition, v.Loc, msgVariantValue)
	}
	return true, nil
}

// checkVariant rejects selected variants that cannot be constructed.
func checkVariant(d *decl.TypeDeclaration, v *decl.Variant) error {
	switch v.Shape.Kind {
	case decl.Record, decl.Tuple, decl.Unit, decl.Newtype:
	default:
		return newDiagnostic(ErrUnsupportedShape, v.Loc, "cannot construct variant %s: %s variants are not supported", v.Name, v.Shape.Kind)
	}
	if v.NumTypeParams != 0 && v.NumTypeParams != len(d.TypeParams) {
		return newDiagnostic(ErrUnsupportedShape, v.Loc,
			"cannot instantiate variant %s: it declares %d type parameters, %s declares %d",
			v.Name, v.NumTypeParams, d.Name, len(d.TypeParams))
	}
	return nil
}
