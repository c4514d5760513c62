// Package derive synthesizes partial-default constructors from type declarations.
//
// The pipeline for one declaration is:
//
//	FindAttr      parse the //partialdefault annotation of each item
//	selectShape   pick the struct shape, or the marked variant of a union
//	constructExpr build the composite literal, conversion or variant value
//	BoundStrategy infer or override the type-parameter constraints
//
// Derive runs it once and returns either an Implementation or a *Diagnostic
// located at the item that caused the failure. Derive is pure: it keeps no
// state between calls, so independent declarations may be derived concurrently.
package derive

import (
	"unicode"
	"unicode/utf8"

	"github.com/teranos/partialdefault/decl"
)

// DefaultRuntime is the package name generated code uses for the runtime helpers.
const DefaultRuntime = "partialdefault"

// Options configures how generated code refers to the runtime package.
type Options struct {
	// Runtime is the package qualifier for Value and Defaulter.
	// Empty when generating inside the runtime package itself.
	Runtime string
}

// DefaultOptions returns options for code importing the runtime package
// under its own name.
func DefaultOptions() Options {
	return Options{Runtime: DefaultRuntime}
}

func (o Options) qualify(name string) string {
	if o.Runtime == "" {
		return name
	}
	return o.Runtime + "." + name
}

// Implementation is the synthesized partial default for one declaration.
type Implementation struct {
	Name       string
	TypeParams []decl.TypeParam
	Bounds     []Bound

	// Expr constructs the value; it refers to the type parameters by name
	Expr string

	Union bool
	opts  Options
}

// Derive runs the analysis and synthesis pipeline for d.
func Derive(d *decl.TypeDeclaration, opts Options) (*Implementation, error) {
	strategy, err := selectBoundStrategy(d)
	if err != nil {
		return nil, err
	}
	bounds, err := strategy.Bounds(d)
	if err != nil {
		return nil, err
	}

	sel, err := selectShape(d)
	if err != nil {
		return nil, err
	}
	expr, err := constructExpr(d, sel, opts)
	if err != nil {
		return nil, err
	}

	return &Implementation{
		Name:       d.Name,
		TypeParams: d.TypeParams,
		Bounds:     bounds,
		Expr:       expr,
		Union:      d.Shape.Kind == decl.Union,
		opts:       opts,
	}, nil
}

// FuncName is the name of the generated constructor. It is exported exactly
// when the type is.
func (impl *Implementation) FuncName() string {
	r, size := utf8.DecodeRuneInString(impl.Name)
	if unicode.IsUpper(r) {
		return "PartialDefault" + impl.Name
	}
	return "partialDefault" + string(unicode.ToUpper(r)) + impl.Name[size:]
}

// Constraints returns the type parameters with their bounds appended.
func (impl *Implementation) Constraints() []decl.TypeParam {
	params := make([]decl.TypeParam, len(impl.TypeParams))
	for i, p := range impl.TypeParams {
		var extra []string
		for _, b := range impl.Bounds {
			if b.Param == p.Name {
				extra = append(extra, b.Constraint)
			}
		}
		params[i] = decl.TypeParam{Name: p.Name, Constraint: combineConstraint(p.Constraint, extra)}
	}
	return params
}

// HasMethod reports whether the PartialDefault method is generated. A method
// cannot tighten its receiver's constraints, so types whose bounds do only
// get the constructor function.
func (impl *Implementation) HasMethod() bool {
	return !impl.Union && !impl.tightens()
}

// Registers reports whether the union constructor is registered with the
// runtime. Only non-generic unions can be registered.
func (impl *Implementation) Registers() bool {
	return impl.Union && len(impl.TypeParams) == 0 && !impl.tightens()
}

// tightens reports whether a bound restricts a type parameter beyond the
// constraint the type itself declares.
func (impl *Implementation) tightens() bool {
	for _, b := range impl.Bounds {
		if !unconstrained(b.Constraint) {
			return true
		}
	}
	return false
}
