package derive

import (
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"github.com/teranos/partialdefault/decl"
)

const msgExpectedBound = `expected //partialdefault(bound = "...")`

// Bound is one constraint added to a type parameter of the generated constructor.
type Bound struct {
	Param      string
	Constraint string
}

// BoundStrategy computes the constraints the generated code imposes on a
// declaration's type parameters.
type BoundStrategy interface {
	Bounds(d *decl.TypeDeclaration) ([]Bound, error)
}

// inferredBounds requires every type parameter to have the capability itself.
// Every Go type has it through Value, which falls back to the zero value, so
// the inferred constraint is any and leaves the type's own constraints as
// they are.
type inferredBounds struct{}

func (inferredBounds) Bounds(d *decl.TypeDeclaration) ([]Bound, error) {
	bounds := make([]Bound, 0, len(d.TypeParams))
	for _, p := range d.TypeParams {
		bounds = append(bounds, Bound{Param: p.Name, Constraint: "any"})
	}
	return bounds, nil
}

// explicitBounds replaces inference with the list written in the type's
// annotation. An empty list imposes nothing.
type explicitBounds struct {
	attr *Attr
}

func (s explicitBounds) Bounds(d *decl.TypeDeclaration) ([]Bound, error) {
	if strings.TrimSpace(s.attr.Text) == "" {
		return nil, nil
	}

	fset := token.NewFileSet()
	src := "package p\nfunc _[" + s.attr.Text + "]() {}\n"
	f, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, newDiagnostic(ErrInvalidAnnotationSyntax, s.attr.TextLoc, "invalid bound %q: %s", s.attr.Text, firstSyntaxError(err))
	}

	var fn *ast.FuncDecl
	if len(f.Decls) == 1 {
		fn, _ = f.Decls[0].(*ast.FuncDecl)
	}
	if fn == nil || fn.Type.TypeParams == nil {
		return nil, newDiagnostic(ErrInvalidAnnotationSyntax, s.attr.TextLoc, "invalid bound %q: expected a type parameter list", s.attr.Text)
	}

	var bounds []Bound
	for _, field := range fn.Type.TypeParams.List {
		constraint := exprString(fset, field.Type)
		for _, name := range field.Names {
			if !d.HasTypeParam(name.Name) {
				return nil, newDiagnostic(ErrInvalidAnnotationSyntax, s.attr.TextLoc,
					"invalid bound %q: %s is not a type parameter of %s", s.attr.Text, name.Name, d.Name)
			}
			bounds = append(bounds, Bound{Param: name.Name, Constraint: constraint})
		}
	}
	return bounds, nil
}

// selectBoundStrategy picks inference or the explicit override, once per type.
func selectBoundStrategy(d *decl.TypeDeclaration) (BoundStrategy, error) {
	attr, err := FindAttr(d.Attrs)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return inferredBounds{}, nil
	}
	if attr.Kind != BoundOverride {
		return nil, newDiagnostic(ErrAnnotationWrongPosition, d.Loc, msgExpectedBound)
	}
	return explicitBounds{attr: attr}, nil
}

// combineConstraint appends bounds to a parameter's own constraint. Bounds
// that admit every type are dropped.
func combineConstraint(original string, bounds []string) string {
	var extra []string
	for _, b := range bounds {
		if !unconstrained(b) {
			extra = append(extra, b)
		}
	}
	bounds = extra
	if len(bounds) == 0 {
		return original
	}
	if unconstrained(original) {
		if len(bounds) == 1 {
			return bounds[0]
		}
		return "interface{ " + strings.Join(bounds, "; ") + " }"
	}
	return "interface{ " + original + "; " + strings.Join(bounds, "; ") + " }"
}

// unconstrained reports whether constraint is satisfied by every type.
func unconstrained(constraint string) bool {
	switch strings.Join(strings.Fields(constraint), "") {
	case "", "any", "interface{}":
		return true
	}
	return false
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	var sb strings.Builder
	if err := printer.Fprint(&sb, fset, expr); err != nil {
		return ""
	}
	return sb.String()
}
