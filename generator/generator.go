// Package generator runs the derive pipeline over a loaded package and
// produces the generated Go file.
package generator

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/teranos/partialdefault/derive"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Header marks generated files. It matches the convention recognized by
// ast.IsGenerated, so generated files are skipped when packages are reloaded.
const Header = "// Code generated by partialdefault. DO NOT EDIT."

// DefaultRuntimeImport is the import path of the runtime helpers.
const DefaultRuntimeImport = "github.com/teranos/partialdefault"

// Options configures a Generator.
type Options struct {
	// Workers bounds the number of declarations derived concurrently
	Workers int

	// RuntimeImport is the import path of the package providing Value,
	// Defaulter and Register
	RuntimeImport string

	// Suffix is appended to the package name to form the output file name
	Suffix string

	// Types selects types by name instead of by directive
	Types []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Workers:       4,
		RuntimeImport: DefaultRuntimeImport,
		Suffix:        "_partialdefault.go",
	}
}

// Generator produces partial-default implementations for packages.
type Generator struct {
	opts Options
	log  *zap.SugaredLogger
}

// New creates a generator. A nil logger discards output.
func New(opts Options, log *zap.SugaredLogger) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}
	if opts.Suffix == "" {
		opts.Suffix = DefaultOptions().Suffix
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{opts: opts, log: log}
}

// Result is the generation outcome for one package.
type Result struct {
	Package    string
	OutputPath string

	// Source is the formatted file; nil when no type was generated
	Source []byte

	// Types lists the generated types in source order
	Types []string

	// Diagnostics holds one entry per type that failed
	Diagnostics []*derive.Diagnostic
}

// Generate derives every selected type of pkg and assembles the output file.
// A diagnostic fails only its own type; the returned error reports
// infrastructure failures.
func (g *Generator) Generate(ctx context.Context, pkg *source.Package) (*Result, error) {
	if err := checkGoVersion(pkg.GoVersion); err != nil {
		return nil, errors.Wrapf(err, "package %s", pkg.Name)
	}

	decls, err := source.Extract(pkg, source.Options{Types: g.opts.Types})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Package:    pkg.Name,
		OutputPath: filepath.Join(pkg.Dir, pkg.Name+g.opts.Suffix),
	}
	if len(decls) == 0 {
		g.log.Debugw("No types to derive", "package", pkg.Name)
		return result, nil
	}

	opts := derive.DefaultOptions()
	if pkg.Path != "" && pkg.Path == g.opts.RuntimeImport {
		opts.Runtime = ""
	}

	impls, err := g.deriveAll(ctx, decls, opts)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	var used []*source.Declaration
	for i, d := range decls {
		impl := impls[i]
		if impl.err != nil {
			diag, ok := derive.AsDiagnostic(impl.err)
			if !ok {
				return nil, errors.Wrapf(impl.err, "deriving %s", d.Name)
			}
			g.log.Debugw("Type rejected", "type", d.Name, "error", diag.Msg)
			result.Diagnostics = append(result.Diagnostics, diag)
			continue
		}

		body.WriteString("\n")
		if err := impl.impl.Render(&body); err != nil {
			return nil, errors.Wrapf(err, "rendering %s", d.Name)
		}
		result.Types = append(result.Types, d.Name)
		used = append(used, d)
	}
	if len(result.Types) == 0 {
		return result, nil
	}

	src, err := g.assemble(pkg, opts, used, body.Bytes(), result.OutputPath)
	if err != nil {
		return nil, err
	}
	result.Source = src

	g.log.Debugw("Generated package",
		"package", pkg.Name,
		"types", len(result.Types),
		"rejected", len(result.Diagnostics))
	return result, nil
}

// derived holds the outcome for one declaration slot.
type derived struct {
	impl *derive.Implementation
	err  error
}

// deriveAll runs Derive for every declaration on a bounded number of
// goroutines. Results keep declaration order.
func (g *Generator) deriveAll(ctx context.Context, decls []*source.Declaration, opts derive.Options) ([]derived, error) {
	out := make([]derived, len(decls))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)
	for i, d := range decls {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			impl, err := derive.Derive(d.TypeDeclaration, opts)
			out[i] = derived{impl: impl, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// assemble writes the file around the rendered declarations and runs it
// through goimports, which formats it and drops unused imports.
func (g *Generator) assemble(pkg *source.Package, opts derive.Options, decls []*source.Declaration, body []byte, filename string) ([]byte, error) {
	specs, err := g.importSpecs(opts, decls)
	if err != nil {
		return nil, errors.Wrapf(err, "package %s", pkg.Name)
	}

	var buf bytes.Buffer
	buf.WriteString(Header + "\n\n")
	buf.WriteString("package " + pkg.Name + "\n")
	if len(specs) > 0 {
		buf.WriteString("\nimport (\n")
		for _, s := range specs {
			buf.WriteString("\t" + s + "\n")
		}
		buf.WriteString(")\n")
	}
	buf.Write(body)

	src, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, errors.WithDetail(
			errors.Wrapf(err, "formatting generated code for package %s", pkg.Name),
			buf.String(),
		)
	}
	return src, nil
}

// importSpecs returns the import lines for the generated file: the runtime
// package followed by the imports of the files declaring the derived types.
// Two paths bound to the same name cannot share one file.
func (g *Generator) importSpecs(opts derive.Options, decls []*source.Declaration) ([]string, error) {
	byName := make(map[string]string)
	var specs []string

	add := func(imp source.Import) error {
		name := imp.Name
		if name == "" {
			name = importName(imp.Path)
		}
		if prev, ok := byName[name]; ok {
			if prev == imp.Path {
				return nil
			}
			return errors.WithHint(
				errors.Newf("import name %s refers to both %q and %q", name, prev, imp.Path),
				"give one of the imports an explicit name in the files declaring the derived types",
			)
		}
		byName[name] = imp.Path

		spec := strconv.Quote(imp.Path)
		if imp.Name != "" {
			spec = imp.Name + " " + spec
		}
		specs = append(specs, spec)
		return nil
	}

	if opts.Runtime != "" {
		runtime := source.Import{Path: g.opts.RuntimeImport}
		if importName(runtime.Path) != opts.Runtime {
			runtime.Name = opts.Runtime
		}
		if err := add(runtime); err != nil {
			return nil, err
		}
	}
	for _, d := range decls {
		for _, imp := range d.Imports {
			if err := add(imp); err != nil {
				return nil, err
			}
		}
	}
	return specs, nil
}

// importName guesses the package name of an import path the way goimports
// does for unnamed imports: the last element, skipping a major version suffix.
func importName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			dir := path.Dir(importPath)
			if dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i >= 0 {
		base = base[:i]
	}
	return base
}
