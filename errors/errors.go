// Package errors provides error handling for partialdefault.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Wrap with context
//	if err := loadPackages(); err != nil {
//	    return errors.Wrap(err, "failed to load packages")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run go mod tidy")
//
// Generation diagnostics are not built here: they are typed values in package
// derive that carry a source position.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Joining independent failures
var (
	Join = crdb.Join
)

// Sentinel errors shared across packages.
var (
	// ErrNoTypes indicates nothing in the loaded packages was selected for generation
	ErrNoTypes = New("no types to generate")

	// ErrOutOfDate indicates a generated file on disk differs from a fresh generation
	ErrOutOfDate = New("generated code is out of date")

	// ErrDiagnostics indicates at least one type failed to generate
	ErrDiagnostics = New("generation reported diagnostics")
)
