package generator

import (
	"bytes"
	"os"

	"github.com/teranos/partialdefault/errors"
)

// Write stores the generated file. For a package without generated types,
// output left by an earlier run is removed.
func (r *Result) Write() error {
	if r.Source == nil {
		return r.removeStale()
	}
	if err := os.WriteFile(r.OutputPath, r.Source, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", r.OutputPath)
	}
	return nil
}

// UpToDate reports whether the file on disk matches the generated source.
// A missing file is up to date only when nothing would be generated.
func (r *Result) UpToDate() (bool, error) {
	existing, err := os.ReadFile(r.OutputPath)
	if os.IsNotExist(err) {
		return r.Source == nil, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", r.OutputPath)
	}
	if r.Source == nil {
		// Stale output left behind after the last derived type was removed
		return !generated(existing), nil
	}
	return bytes.Equal(existing, r.Source), nil
}

func (r *Result) removeStale() error {
	existing, err := os.ReadFile(r.OutputPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", r.OutputPath)
	}
	if !generated(existing) {
		return nil
	}
	if err := os.Remove(r.OutputPath); err != nil {
		return errors.Wrapf(err, "failed to remove stale %s", r.OutputPath)
	}
	return nil
}

// generated reports whether data starts with the header written by Generate.
func generated(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Header+"\n"))
}

// Check returns errors.ErrOutOfDate when the file on disk differs.
func (r *Result) Check() error {
	ok, err := r.UpToDate()
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithHint(
			errors.Wrapf(errors.ErrOutOfDate, "package %s", r.Package),
			"run partialdefault to regenerate "+r.OutputPath,
		)
	}
	return nil
}
