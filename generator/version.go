package generator

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/partialdefault/errors"
)

// Generated code uses type parameters.
const goVersionConstraint = ">= 1.18"

// checkGoVersion rejects modules whose go directive predates generics.
// An unknown version passes.
func checkGoVersion(version string) error {
	if version == "" {
		return nil
	}

	// Pre-release suffixes such as "1.21rc1" are not semver
	if i := strings.IndexFunc(version, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i > 0 {
		version = version[:i]
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid go version %s", version)
	}
	constraint, err := semver.NewConstraint(goVersionConstraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", goVersionConstraint)
	}
	if !constraint.Check(v) {
		return errors.WithHint(
			errors.Newf("module requires go %s, generated code needs go %s", version, goVersionConstraint),
			"raise the go directive in go.mod",
		)
	}
	return nil
}
