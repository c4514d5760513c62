package source

import (
	"go/ast"
	"go/printer"
	"go/token"
	"strconv"
	"strings"

	"github.com/teranos/partialdefault/decl"
	"github.com/teranos/partialdefault/errors"
)

// DeriveDirective in a type's doc comment selects the type for generation.
const DeriveDirective = decl.AttrName + ":derive"

// Options selects the types to derive.
type Options struct {
	// Types names the types explicitly. When empty, types carrying
	// DeriveDirective are selected.
	Types []string
}

// Import is an import of a file that declares a derived type or a variant.
type Import struct {
	Name string
	Path string
}

// Declaration is a derived type together with the imports its field types
// may refer to.
type Declaration struct {
	*decl.TypeDeclaration
	Imports []Import
}

// typeInfo is a type spec with the comment group documenting it.
type typeInfo struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
	file *ast.File
}

// sealer is a type declaring an unexported, parameterless method without
// results, which makes it a candidate variant of a union.
type sealer struct {
	pointer bool
}

type extractor struct {
	pkg   *Package
	types []*typeInfo
	index map[string]*typeInfo

	// methods maps a method name to the receiver types declaring it
	methods map[string]map[string]sealer
}

// Extract builds a declaration for every selected type in pkg, in source order.
func Extract(pkg *Package, opts Options) ([]*Declaration, error) {
	x := &extractor{
		pkg:     pkg,
		index:   make(map[string]*typeInfo),
		methods: make(map[string]map[string]sealer),
	}
	x.collect()

	selected, err := x.selected(opts)
	if err != nil {
		return nil, err
	}

	decls := make([]*Declaration, 0, len(selected))
	for _, ti := range selected {
		decls = append(decls, x.declaration(ti))
	}
	return decls, nil
}

// collect indexes the package's type specs and candidate sealing methods.
func (x *extractor) collect() {
	for _, file := range x.pkg.Files {
		for _, d := range file.Decls {
			switch d := d.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && !d.Lparen.IsValid() {
						doc = d.Doc
					}
					ti := &typeInfo{spec: ts, doc: doc, file: file}
					x.types = append(x.types, ti)
					x.index[ts.Name.Name] = ti
				}

			case *ast.FuncDecl:
				name, pointer, ok := sealingMethod(d)
				if !ok {
					continue
				}
				if x.methods[d.Name.Name] == nil {
					x.methods[d.Name.Name] = make(map[string]sealer)
				}
				x.methods[d.Name.Name][name] = sealer{pointer: pointer}
			}
		}
	}
}

// sealingMethod returns the receiver type of fn if fn could seal a union.
func sealingMethod(fn *ast.FuncDecl) (recv string, pointer bool, ok bool) {
	if fn.Recv == nil || len(fn.Recv.List) != 1 || fn.Name.IsExported() {
		return "", false, false
	}
	if fn.Type.Params.NumFields() != 0 || fn.Type.Results.NumFields() != 0 {
		return "", false, false
	}

	expr := fn.Recv.List[0].Type
	if star, isStar := expr.(*ast.StarExpr); isStar {
		pointer = true
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	ident, isIdent := expr.(*ast.Ident)
	if !isIdent {
		return "", false, false
	}
	return ident.Name, pointer, true
}

func (x *extractor) selected(opts Options) ([]*typeInfo, error) {
	if len(opts.Types) == 0 {
		var out []*typeInfo
		for _, ti := range x.types {
			if hasDirective(ti.doc, DeriveDirective) {
				out = append(out, ti)
			}
		}
		return out, nil
	}

	want := make(map[string]bool, len(opts.Types))
	for _, name := range opts.Types {
		if _, ok := x.index[name]; !ok {
			return nil, errors.WithHint(
				errors.Newf("type %s not found in package %s", name, x.pkg.Name),
				"--types takes type names declared in the package, without a package qualifier",
			)
		}
		want[name] = true
	}
	var out []*typeInfo
	for _, ti := range x.types {
		if want[ti.spec.Name.Name] {
			out = append(out, ti)
		}
	}
	return out, nil
}

func (x *extractor) declaration(ti *typeInfo) *Declaration {
	d := &decl.TypeDeclaration{
		Name:       ti.spec.Name.Name,
		TypeParams: x.typeParams(ti.spec.TypeParams),
		Attrs:      x.attributes(ti.doc),
		Loc:        x.pkg.Fset.Position(ti.spec.Name.Pos()),
	}
	files := []*ast.File{ti.file}

	if iface, ok := ti.spec.Type.(*ast.InterfaceType); ok && !ti.spec.Assign.IsValid() {
		d.Shape = x.unionShape(iface)
		for _, v := range d.Shape.Variants {
			files = append(files, x.index[v.Name].file)
		}
	} else {
		d.Shape = x.shape(ti.spec)
	}

	return &Declaration{TypeDeclaration: d, Imports: imports(files)}
}

// shape classifies a non-interface type spec.
func (x *extractor) shape(spec *ast.TypeSpec) decl.Shape {
	if spec.Assign.IsValid() {
		return decl.Shape{Kind: decl.Unsupported, Reason: "type aliases"}
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		return x.structShape(t)
	case *ast.InterfaceType:
		return decl.Shape{Kind: decl.Unsupported, Reason: "nested unions"}
	default:
		return decl.Shape{Kind: decl.Newtype, Fields: []decl.Field{{
			Embedded: true,
			Type:     x.nodeString(spec.Type),
			Loc:      x.pkg.Fset.Position(spec.Type.Pos()),
		}}}
	}
}

// structShape returns Unit for empty structs, Tuple when every field is
// embedded and Record otherwise.
func (x *extractor) structShape(st *ast.StructType) decl.Shape {
	if st.Fields.NumFields() == 0 {
		return decl.Shape{Kind: decl.Unit}
	}

	kind := decl.Tuple
	var fields []decl.Field
	for _, f := range st.Fields.List {
		typ := x.nodeString(f.Type)
		attrs := append(x.attributes(f.Doc), x.attributes(f.Comment)...)

		if len(f.Names) == 0 {
			fields = append(fields, decl.Field{
				Name:     embeddedName(f.Type),
				Embedded: true,
				Type:     typ,
				Attrs:    attrs,
				Loc:      x.pkg.Fset.Position(f.Type.Pos()),
			})
			continue
		}

		kind = decl.Record
		for _, name := range f.Names {
			fields = append(fields, decl.Field{
				Name:  name.Name,
				Blank: name.Name == "_",
				Type:  typ,
				Attrs: attrs,
				Loc:   x.pkg.Fset.Position(name.Pos()),
			})
		}
	}
	return decl.Shape{Kind: kind, Fields: fields}
}

// unionShape discovers the variants of a sealed interface. Interfaces
// without a sealing method cannot enumerate their members.
func (x *extractor) unionShape(iface *ast.InterfaceType) decl.Shape {
	method, ok := sealedBy(iface)
	if !ok {
		return decl.Shape{Kind: decl.Unsupported, Reason: "interface types without a sealing method"}
	}

	receivers := x.methods[method]
	var variants []decl.Variant
	for _, ti := range x.types {
		s, ok := receivers[ti.spec.Name.Name]
		if !ok {
			continue
		}
		variants = append(variants, decl.Variant{
			Name:          ti.spec.Name.Name,
			NumTypeParams: ti.spec.TypeParams.NumFields(),
			Pointer:       s.pointer,
			Shape:         x.shape(ti.spec),
			Attrs:         x.attributes(ti.doc),
			Loc:           x.pkg.Fset.Position(ti.spec.Name.Pos()),
		})
	}
	return decl.Shape{Kind: decl.Union, Variants: variants}
}

// sealedBy returns the interface's sealing method: its only method, which
// must be unexported and take and return nothing. Embedded interfaces and
// type sets disqualify it.
func sealedBy(iface *ast.InterfaceType) (string, bool) {
	if len(iface.Methods.List) != 1 {
		return "", false
	}
	m := iface.Methods.List[0]
	fn, ok := m.Type.(*ast.FuncType)
	if !ok || len(m.Names) != 1 || m.Names[0].IsExported() {
		return "", false
	}
	if fn.Params.NumFields() != 0 || fn.Results.NumFields() != 0 {
		return "", false
	}
	return m.Names[0].Name, true
}

func (x *extractor) typeParams(list *ast.FieldList) []decl.TypeParam {
	if list == nil {
		return nil
	}
	var params []decl.TypeParam
	for _, f := range list.List {
		constraint := x.nodeString(f.Type)
		for _, name := range f.Names {
			params = append(params, decl.TypeParam{Name: name.Name, Constraint: constraint})
		}
	}
	return params
}

// attributes returns the line-comment directives of cg. Text excludes the
// leading "//" and Loc points just past it.
func (x *extractor) attributes(cg *ast.CommentGroup) []decl.Attribute {
	if cg == nil {
		return nil
	}
	var attrs []decl.Attribute
	for _, c := range cg.List {
		text, ok := strings.CutPrefix(c.Text, "//")
		if !ok {
			continue
		}
		attrs = append(attrs, decl.Attribute{
			Text: strings.TrimRight(text, " \t\r"),
			Loc:  x.pkg.Fset.Position(c.Slash + 2),
		})
	}
	return attrs
}

func (x *extractor) nodeString(node ast.Node) string {
	var sb strings.Builder
	if err := printer.Fprint(&sb, x.pkg.Fset, node); err != nil {
		return ""
	}
	return sb.String()
}

// hasDirective reports whether cg contains the line comment //name.
func hasDirective(cg *ast.CommentGroup, name string) bool {
	if cg == nil {
		return false
	}
	for _, c := range cg.List {
		if strings.TrimSpace(strings.TrimPrefix(c.Text, "//")) == name && strings.HasPrefix(c.Text, "//"+name) {
			return true
		}
	}
	return false
}

// embeddedName is the implicit field name of an embedded field:
// the type name without pointer, package qualifier or type arguments.
func embeddedName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.SelectorExpr:
			return e.Sel.Name
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// imports collects the imports of files, deduplicated, in first-seen order.
func imports(files []*ast.File) []Import {
	seen := make(map[Import]bool)
	var out []Import
	for _, f := range files {
		for _, spec := range f.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			imp := Import{Path: path}
			if spec.Name != nil {
				imp.Name = spec.Name.Name
			}
			// Blank and dot imports are not referred to by qualified names
			if imp.Name == "_" || imp.Name == "." || seen[imp] {
				continue
			}
			seen[imp] = true
			out = append(out, imp)
		}
	}
	return out
}
