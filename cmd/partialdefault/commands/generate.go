package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/partialdefault/config"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/generator"
	"github.com/teranos/partialdefault/logger"
	"github.com/teranos/partialdefault/source"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	results, err := generateAll(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}

	if err := writeResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	return summarize(cmd.ErrOrStderr(), results)
}

func newGenerator(cfg *config.Config) *generator.Generator {
	return generator.New(generator.Options{
		Workers:       cfg.Generate.Workers,
		RuntimeImport: cfg.Generate.RuntimeImport,
		Suffix:        cfg.Output.Suffix,
		Types:         typeNames,
	}, logger.Named("generator"))
}

// generateAll loads the packages matching patterns and generates each of
// them, in load order.
func generateAll(ctx context.Context, cfg *config.Config, patterns []string) ([]*generator.Result, error) {
	pkgs, err := source.Load(ctx, "", patterns...)
	if err != nil {
		return nil, err
	}

	g := newGenerator(cfg)
	results := make([]*generator.Result, 0, len(pkgs))
	for _, pkg := range pkgs {
		result, err := g.Generate(ctx, pkg)
		if err != nil {
			return nil, err
		}
		logger.Infow("Generated package",
			"package", pkg.Path,
			"types", len(result.Types),
			"rejected", len(result.Diagnostics))
		results = append(results, result)
	}
	return results, nil
}

func writeResults(stdout io.Writer, results []*generator.Result) error {
	switch outputPath {
	case "":
		for _, r := range results {
			if err := r.Write(); err != nil {
				return err
			}
			if r.Source != nil {
				logger.Debugw("Wrote", "file", r.OutputPath, "types", r.Types)
			}
		}
		return nil

	case "-":
		for _, r := range results {
			if r.Source == nil {
				continue
			}
			if _, err := stdout.Write(r.Source); err != nil {
				return errors.Wrap(err, "failed to write to stdout")
			}
		}
		return nil

	default:
		var generated []*generator.Result
		for _, r := range results {
			if r.Source != nil {
				generated = append(generated, r)
			}
		}
		if len(generated) > 1 {
			return errors.WithHint(
				errors.Newf("--output %s names one file but %d packages were generated", outputPath, len(generated)),
				"omit --output to write each package's file next to its sources",
			)
		}
		if len(generated) == 0 {
			return nil
		}
		if err := os.WriteFile(outputPath, generated[0].Source, 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", outputPath)
		}
		return nil
	}
}

// summarize prints diagnostics as file:line:col: message and turns them,
// or an empty run, into the command's error.
func summarize(stderr io.Writer, results []*generator.Result) error {
	var rejected, generated int
	for _, r := range results {
		for _, d := range r.Diagnostics {
			fmt.Fprintln(stderr, d.Error())
		}
		rejected += len(r.Diagnostics)
		generated += len(r.Types)
	}

	if rejected > 0 {
		return errors.Wrapf(errors.ErrDiagnostics, "%d of %d types rejected", rejected, rejected+generated)
	}
	if generated == 0 {
		return errors.WithHint(errors.ErrNoTypes,
			"mark types with a //partialdefault:derive doc comment or name them with --types")
	}
	return nil
}
