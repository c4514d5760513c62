package generator

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/partialdefault/derive"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/source"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// parsePackage builds a package from in-memory files located in dir.
func parsePackage(t *testing.T, dir string, files map[string]string) *source.Package {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	pkg := &source.Package{Dir: dir, Fset: token.NewFileSet()}
	for _, name := range names {
		f, err := parser.ParseFile(pkg.Fset, filepath.Join(dir, name), files[name], parser.ParseComments)
		require.NoError(t, err)
		if ast.IsGenerated(f) {
			continue
		}
		pkg.Name = f.Name.Name
		pkg.Files = append(pkg.Files, f)
	}
	return pkg
}

func generate(t *testing.T, pkg *source.Package, opts Options) *Result {
	t.Helper()
	result, err := New(opts, nil).Generate(context.Background(), pkg)
	require.NoError(t, err)
	return result
}

const eventSource = `package shapes

import "time"

//partialdefault:derive
type Event struct {
	//partialdefault(value = "\"boot\"")
	Name string
	At   time.Time
}
`

func TestGenerate_Record(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"event.go": eventSource})

	result := generate(t, pkg, DefaultOptions())

	want := `// Code generated by partialdefault. DO NOT EDIT.

package shapes

import (
	"time"

	"github.com/teranos/partialdefault"
)

// PartialDefaultEvent returns a partial default of Event, safe to discard or assign over.
func PartialDefaultEvent() Event {
	return Event{Name: "boot", At: partialdefault.Value[time.Time]()}
}

// PartialDefault implements partialdefault.Defaulter.
func (Event) PartialDefault() Event {
	return PartialDefaultEvent()
}
`
	assert.Equal(t, want, string(result.Source))
	assert.Equal(t, []string{"Event"}, result.Types)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, filepath.Join("/src/shapes", "shapes_partialdefault.go"), result.OutputPath)
}

func TestGenerate_DropsUnusedImports(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"unit.go": `package shapes

import "strings"

//partialdefault:derive
type Marker struct{}

var _ = strings.TrimSpace
`})

	result := generate(t, pkg, DefaultOptions())
	src := string(result.Source)

	assert.NotContains(t, src, "import")
	assert.Contains(t, src, "return Marker{}")
}

func TestGenerate_UnionRegistration(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"shape.go": `package shapes

//partialdefault:derive
type Shape interface{ isShape() }

type Circle struct{ R float64 }

//partialdefault
type Square struct {
	//partialdefault(value = "1")
	Side float64
}

func (Circle) isShape()  {}
func (*Square) isShape() {}
`})

	result := generate(t, pkg, DefaultOptions())
	src := string(result.Source)

	assert.Contains(t, src, "func PartialDefaultShape() Shape {\n\treturn &Square{Side: 1}\n}")
	assert.Contains(t, src, "func init() {\n\tpartialdefault.Register(PartialDefaultShape)\n}")
	assert.NotContains(t, src, "func (Shape)")
}

func TestGenerate_DiagnosticsFailOnlyTheirType(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"mixed.go": `package shapes

//partialdefault:derive
type Good struct{ N int }

//partialdefault:derive
type Bad interface{ isBad() }

type One struct{}

func (One) isBad() {}

//partialdefault:derive
type Worse struct {
	//partialdefault
	N int
}
`})

	result := generate(t, pkg, DefaultOptions())

	assert.Equal(t, []string{"Good"}, result.Types)
	require.NotNil(t, result.Source)
	assert.Contains(t, string(result.Source), "func PartialDefaultGood() Good")
	assert.NotContains(t, string(result.Source), "Bad")

	require.Len(t, result.Diagnostics, 2)
	bad := result.Diagnostics[0]
	assert.True(t, errors.Is(bad, derive.ErrNoDefaultVariant))
	assert.Equal(t, 7, bad.Pos.Line)
	assert.Equal(t, "/src/shapes/mixed.go", bad.Pos.Filename)

	worse := result.Diagnostics[1]
	assert.True(t, errors.Is(worse, derive.ErrAnnotationWrongPosition))
	assert.Equal(t, 16, worse.Pos.Line)
}

func TestGenerate_AllTypesRejected(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"alias.go": `package shapes

//partialdefault:derive
type Bytes = []byte
`})

	result := generate(t, pkg, DefaultOptions())
	assert.Nil(t, result.Source)
	require.Len(t, result.Diagnostics, 1)
	assert.True(t, errors.Is(result.Diagnostics[0], derive.ErrUnsupportedShape))
}

func TestGenerate_NoTypes(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"plain.go": "package shapes\n\ntype Plain struct{}\n"})

	result := generate(t, pkg, DefaultOptions())
	assert.Nil(t, result.Source)
	assert.Empty(t, result.Types)
	assert.NoError(t, result.Write(), "nothing is written")
}

func TestGenerate_TypesOption(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"plain.go": "package shapes\n\ntype Plain struct{}\ntype Other struct{}\n"})

	opts := DefaultOptions()
	opts.Types = []string{"Other"}
	result := generate(t, pkg, opts)
	assert.Equal(t, []string{"Other"}, result.Types)

	opts.Types = []string{"Missing"}
	_, err := New(opts, nil).Generate(context.Background(), pkg)
	assert.Error(t, err)
}

func TestGenerate_InsideRuntimePackage(t *testing.T) {
	pkg := parsePackage(t, "/src/partialdefault", map[string]string{"box.go": `package partialdefault

//partialdefault:derive
type box[T any] struct{ v T }
`})
	pkg.Path = DefaultRuntimeImport

	result := generate(t, pkg, DefaultOptions())
	src := string(result.Source)

	assert.Contains(t, src, "func partialDefaultBox[T any]() box[T] {\n\treturn box[T]{v: Value[T]()}\n}")
	assert.Contains(t, src, "// PartialDefault implements Defaulter.\nfunc (box[T]) PartialDefault() box[T] {")
	assert.NotContains(t, src, "import")
}

func TestGenerate_CustomRuntimeImport(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"event.go": eventSource})

	opts := DefaultOptions()
	opts.RuntimeImport = "example.com/fork/pdruntime"
	result := generate(t, pkg, opts)

	assert.Contains(t, string(result.Source), `partialdefault "example.com/fork/pdruntime"`)
}

func TestGenerate_ImportConflict(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{
		"a.go": "package shapes\n\nimport \"math/rand\"\n\n//partialdefault:derive\ntype A struct{ R *rand.Rand }\n",
		"b.go": "package shapes\n\nimport \"crypto/rand\"\n\n//partialdefault:derive\ntype B struct{}\n\nvar _ = rand.Reader\n",
	})

	_, err := New(DefaultOptions(), nil).Generate(context.Background(), pkg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import name rand refers to both "math/rand" and "crypto/rand"`)
}

func TestGenerate_OrderAndIdempotence(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("package shapes\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "\n//partialdefault:derive\ntype T%02d struct{ N int }\n", i)
	}
	files := map[string]string{"many.go": sb.String()}

	opts := DefaultOptions()
	opts.Workers = 3
	first := generate(t, parsePackage(t, "/src/shapes", files), opts)
	second := generate(t, parsePackage(t, "/src/shapes", files), opts)

	require.Len(t, first.Types, 20)
	assert.True(t, sort.StringsAreSorted(first.Types), "declaration order is kept")
	assert.Equal(t, string(first.Source), string(second.Source))
}

func TestGenerate_Cancelled(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"event.go": eventSource})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions(), nil).Generate(ctx, pkg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGenerate_GoVersionGate(t *testing.T) {
	pkg := parsePackage(t, "/src/shapes", map[string]string{"event.go": eventSource})
	pkg.GoVersion = "1.17"

	_, err := New(DefaultOptions(), nil).Generate(context.Background(), pkg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module requires go 1.17")
}

func TestResult_WriteAndCheck(t *testing.T) {
	dir := t.TempDir()
	pkg := parsePackage(t, dir, map[string]string{"event.go": eventSource})
	result := generate(t, pkg, DefaultOptions())

	ok, err := result.UpToDate()
	require.NoError(t, err)
	assert.False(t, ok, "missing output is out of date")
	assert.True(t, errors.Is(result.Check(), errors.ErrOutOfDate))

	require.NoError(t, result.Write())
	require.NoError(t, result.Check())

	require.NoError(t, os.WriteFile(result.OutputPath, []byte("package shapes\n"), 0644))
	assert.True(t, errors.Is(result.Check(), errors.ErrOutOfDate))
}

func TestResult_StaleOutput(t *testing.T) {
	dir := t.TempDir()
	result := &Result{Package: "shapes", OutputPath: filepath.Join(dir, "shapes_partialdefault.go")}

	ok, err := result.UpToDate()
	require.NoError(t, err)
	assert.True(t, ok)

	// A hand-written file of the same name is not ours to judge
	require.NoError(t, os.WriteFile(result.OutputPath, []byte("package shapes\n"), 0644))
	ok, err = result.UpToDate()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, result.Write())
	assert.FileExists(t, result.OutputPath)

	require.NoError(t, os.WriteFile(result.OutputPath, []byte(Header+"\n\npackage shapes\n"), 0644))
	ok, err = result.UpToDate()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(result.Check(), errors.ErrOutOfDate))

	require.NoError(t, result.Write())
	assert.NoFileExists(t, result.OutputPath)
	require.NoError(t, result.Check())
}

func TestImportName(t *testing.T) {
	tests := map[string]string{
		"time":                              "time",
		"github.com/teranos/partialdefault": "partialdefault",
		"github.com/Masterminds/semver/v3":  "semver",
		"gopkg.in/yaml.v3":                  "yaml",
		"github.com/google/go-cmp":          "cmp",
		"k8s.io/api/core/v1":                "core",
	}
	for path, want := range tests {
		assert.Equal(t, want, importName(path), path)
	}
}

func TestCheckGoVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"", false},
		{"1.18", false},
		{"1.24.6", false},
		{"1.21rc1", false},
		{"1.17", true},
		{"1.13", true},
		{"bogus", true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := checkGoVersion(tt.version)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
