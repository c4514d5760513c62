package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/partialdefault/config"
	"github.com/teranos/partialdefault/errors"
)

// CheckCmd verifies that generated files are current without writing them.
var CheckCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Verify generated files are up to date",
	Long: `Regenerate in memory and compare with the files on disk.

Exits non-zero when a generated file is missing, differs, or is left over
from types that are no longer derived. Intended for CI.

Examples:
  partialdefault check          # Current package
  partialdefault check ./...    # Every package of the module`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	results, err := generateAll(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}

	success := pterm.Success.WithWriter(cmd.OutOrStdout())
	failure := pterm.Error.WithWriter(cmd.OutOrStdout())

	var stale []string
	for _, r := range results {
		err := r.Check()
		switch {
		case errors.Is(err, errors.ErrOutOfDate):
			failure.Printfln("%s is out of date", r.OutputPath)
			stale = append(stale, r.OutputPath)
		case err != nil:
			return err
		case r.Source != nil:
			success.Printfln("%s is up to date (%d types)", filepath.Base(r.OutputPath), len(r.Types))
		}
	}

	for _, r := range results {
		for _, d := range r.Diagnostics {
			cmd.PrintErrln(d.Error())
		}
	}

	if len(stale) > 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrOutOfDate, "%d of %d generated files", len(stale), len(results)),
			"run partialdefault on the same packages to regenerate",
		)
	}
	for _, r := range results {
		if len(r.Diagnostics) > 0 {
			return errors.Wrap(errors.ErrDiagnostics, "generated files are current but some types were rejected")
		}
	}
	return nil
}
