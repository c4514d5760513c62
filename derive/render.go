package derive

import (
	"fmt"
	"io"
	"strings"

	"github.com/teranos/partialdefault/decl"
)

// Source renders the implementation as Go declarations. The output is not
// gofmt-formatted; the generator formats the assembled file.
func (impl *Implementation) Source() string {
	var sb strings.Builder

	typeArgs := ""
	if len(impl.TypeParams) > 0 {
		names := make([]string, len(impl.TypeParams))
		for i, p := range impl.TypeParams {
			names[i] = p.Name
		}
		typeArgs = "[" + strings.Join(names, ", ") + "]"
	}
	self := impl.Name + typeArgs
	fn := impl.FuncName()

	sb.WriteString(fmt.Sprintf("// %s returns a partial default of %s, safe to discard or assign over.\n", fn, impl.Name))
	sb.WriteString(fmt.Sprintf("func %s%s() %s {\n", fn, typeParamList(impl.Constraints()), self))
	sb.WriteString(fmt.Sprintf("\treturn %s\n", impl.Expr))
	sb.WriteString("}\n")

	if impl.HasMethod() {
		sb.WriteString(fmt.Sprintf("\n// PartialDefault implements %s.\n", impl.opts.qualify("Defaulter")))
		sb.WriteString(fmt.Sprintf("func (%s) PartialDefault() %s {\n", self, self))
		sb.WriteString(fmt.Sprintf("\treturn %s%s()\n", fn, typeArgs))
		sb.WriteString("}\n")
	}

	if impl.Registers() {
		sb.WriteString("\nfunc init() {\n")
		sb.WriteString(fmt.Sprintf("\t%s(%s)\n", impl.opts.qualify("Register"), fn))
		sb.WriteString("}\n")
	}

	return sb.String()
}

func typeParamList(params []decl.TypeParam) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Render writes Source to w.
func (impl *Implementation) Render(w io.Writer) error {
	_, err := io.WriteString(w, impl.Source())
	return err
}
