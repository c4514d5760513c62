package config

import (
	"strings"

	"github.com/teranos/partialdefault/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Generate.Workers <= 0 {
		return errors.Newf("generate.workers must be > 0, got %d", c.Generate.Workers)
	}
	if strings.TrimSpace(c.Generate.RuntimeImport) == "" {
		return errors.New("generate.runtime_import cannot be empty")
	}

	if !strings.HasSuffix(c.Output.Suffix, ".go") {
		return errors.Newf("output.suffix must end in .go, got %q", c.Output.Suffix)
	}
	if strings.HasSuffix(c.Output.Suffix, "_test.go") {
		return errors.WithHint(
			errors.Newf("output.suffix %q would make the output a test file", c.Output.Suffix),
			"generated constructors must be part of the package itself",
		)
	}
	if strings.ContainsAny(c.Output.Suffix, `/\`) {
		return errors.Newf("output.suffix cannot contain a path separator, got %q", c.Output.Suffix)
	}

	// Watch debounce: 0 = regenerate immediately, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}
