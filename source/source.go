// Package source is the Go frontend of the generator. It loads packages,
// finds the types to derive and turns their declarations into decl values.
package source

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/teranos/partialdefault/errors"
	"golang.org/x/tools/go/packages"
)

// Package is one parsed Go package.
type Package struct {
	Name string
	// Path is the import path; empty for packages parsed outside a module
	Path string
	Dir  string

	// GoVersion is the go directive of the enclosing module, if known
	GoVersion string

	Fset  *token.FileSet
	Files []*ast.File
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedModule

// Load loads the packages matching patterns, relative to dir.
// Files produced by code generators are left out.
func Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    loadMode,
		Fset:    token.NewFileSet(),
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	var result []*Package
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, errors.WithHint(
				errors.Newf("package %s: %v", p.PkgPath, p.Errors[0]),
				"generation needs a package that parses; fix the reported error first",
			)
		}

		pkg := &Package{
			Name: p.Name,
			Path: p.PkgPath,
			Fset: cfg.Fset,
		}
		if p.Module != nil {
			pkg.GoVersion = p.Module.GoVersion
		}
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		for _, f := range p.Syntax {
			if ast.IsGenerated(f) {
				continue
			}
			pkg.Files = append(pkg.Files, f)
		}
		result = append(result, pkg)
	}
	return result, nil
}

// ParseSource parses a single file held in memory. The file is treated as a
// complete package located in filename's directory.
func ParseSource(filename string, src string) (*Package, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filename)
	}
	return &Package{
		Name:  f.Name.Name,
		Dir:   filepath.Dir(filename),
		Fset:  fset,
		Files: []*ast.File{f},
	}, nil
}
