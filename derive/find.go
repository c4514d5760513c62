package derive

import "go/token"

// Located is anything that can be attributed to a source position.
type Located interface {
	Pos() token.Position
}

// FindOnly returns the single item satisfying pred.
//
// ok is false when nothing matches. A second match fails immediately with a
// duplicate-annotation diagnostic located at that second item; pred errors are
// returned as-is.
func FindOnly[T Located](items []T, msg string, pred func(T) (bool, error)) (found T, ok bool, err error) {
	var zero T
	for _, item := range items {
		match, perr := pred(item)
		if perr != nil {
			return zero, false, perr
		}
		if !match {
			continue
		}
		if ok {
			return zero, false, newDiagnostic(ErrDuplicateAnnotation, item.Pos(), "%s", msg)
		}
		found, ok = item, true
	}
	return found, ok, nil
}
