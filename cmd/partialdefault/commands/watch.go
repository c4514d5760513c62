package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/partialdefault/config"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/generator"
	"github.com/teranos/partialdefault/logger"
	"github.com/teranos/partialdefault/source"
)

// WatchCmd regenerates whenever the sources of the given packages change.
var WatchCmd = &cobra.Command{
	Use:   "watch [packages]",
	Short: "Regenerate when sources change",
	Long: `Generate once, then watch the package directories and regenerate after
each burst of changes to Go sources. Rejected types are reported and watching
continues. Stop with Ctrl+C.

The quiet period before regenerating is watch.debounce_ms (default 300).`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pkgs, err := source.Load(ctx, "", args...)
	if err != nil {
		return err
	}
	dirs := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		if pkg.Dir != "" {
			dirs = append(dirs, pkg.Dir)
		}
	}

	info := pterm.Info.WithWriter(cmd.OutOrStdout())
	regenerate := func(ctx context.Context) error {
		results, err := generateAll(ctx, cfg, args)
		if err != nil {
			return err
		}
		for _, r := range results {
			if err := r.Write(); err != nil {
				return err
			}
			for _, d := range r.Diagnostics {
				cmd.PrintErrln(d.Error())
			}
		}
		info.Printfln("%s regenerated %s", time.Now().Format("15:04:05"), describe(results))
		return nil
	}

	if err := regenerate(ctx); err != nil {
		return err
	}

	watcher, err := generator.NewWatcher(dirs, cfg.Output.Suffix, regenerate, logger.Named("watch"))
	if err != nil {
		return err
	}
	watcher.SetDebounce(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond)

	info.Printfln("Watching %d packages", len(dirs))
	return watcher.Run(ctx)
}

func describe(results []*generator.Result) string {
	var types, rejected int
	for _, r := range results {
		types += len(r.Types)
		rejected += len(r.Diagnostics)
	}
	if rejected > 0 {
		return pterm.Sprintf("%d types, %d rejected", types, rejected)
	}
	return pterm.Sprintf("%d types", types)
}
