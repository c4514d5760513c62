// Package partialdefault provides the runtime side of the partialdefault code
// generator.
//
// A partial default is a value that is safe to discard or assign over, but that
// promises nothing else. Types get the capability by running the generator
// (cmd/partialdefault) over their package; every other type falls back to its
// zero value, which is Go's conventional default.
//
// Usage:
//
//	//go:generate partialdefault
//
//	//partialdefault:derive
//	type Credential struct {
//	    //partialdefault(value = "[]byte{0}")
//	    Key   []byte
//	    Owner string
//	}
//
//	c := partialdefault.Value[Credential]()
package partialdefault

import "sync"

// Defaulter is implemented by types that can produce a partial default of
// themselves. Generated code implements it with a value receiver.
type Defaulter[T any] interface {
	PartialDefault() T
}

// registry holds constructors for interface types, which cannot carry methods.
// Keys are typed nil pointers: (*T)(nil) compares equal only to itself.
var registry sync.Map

// Register records fn as the constructor used by Value for T.
// Generated code calls it from init for sealed-interface unions.
func Register[T any](fn func() T) {
	registry.Store(any((*T)(nil)), fn)
}

// Value returns a partial default of T.
//
// Resolution order: a constructor registered for T, then T's own
// PartialDefault method, then the zero value of T.
func Value[T any]() T {
	if fn, ok := registry.Load(any((*T)(nil))); ok {
		return fn.(func() T)()
	}
	var zero T
	if d, ok := any(zero).(Defaulter[T]); ok {
		return d.PartialDefault()
	}
	return zero
}
