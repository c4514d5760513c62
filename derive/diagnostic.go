package derive

import (
	"fmt"
	"go/token"

	"github.com/teranos/partialdefault/errors"
)

// Diagnostic kinds. A *Diagnostic unwraps to exactly one of these, so callers
// can classify failures with errors.Is.
var (
	ErrDuplicateAnnotation     = errors.New("duplicate annotation")
	ErrInvalidAnnotationSyntax = errors.New("invalid annotation syntax")
	ErrAnnotationWrongPosition = errors.New("annotation in wrong position")
	ErrNoDefaultVariant        = errors.New("no default variant selected")
	ErrUnsupportedShape        = errors.New("unsupported shape")
)

// Diagnostic is a generation failure attributed to a source location.
// It aborts generation for one type declaration only.
type Diagnostic struct {
	Kind error
	Pos  token.Position
	Msg  string
}

func newDiagnostic(kind error, pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Error formats the diagnostic the way the Go toolchain reports errors.
func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + d.Msg
	}
	return d.Msg
}

func (d *Diagnostic) Unwrap() error { return d.Kind }

// AsDiagnostic extracts the diagnostic from err, if there is one.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
