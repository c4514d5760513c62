// Package commands implements the partialdefault command line.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/teranos/partialdefault/config"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/logger"
)

var (
	typeNames  []string
	outputPath string
	configPath string
	jsonLogs   bool
	verbosity  int
)

// RootCmd generates partial-default constructors for the packages given as
// arguments.
var RootCmd = &cobra.Command{
	Use:   "partialdefault [packages]",
	Short: "Generate partial-default constructors for Go types",
	Long: `Generate partial-default constructors for Go types.

A partial default is a cheap placeholder value: every field holds the partial
default of its own type unless overridden. It is safe to discard or to assign
over, not necessarily meaningful.

Types are selected with a //partialdefault:derive doc comment or --types.
Annotations:
  //partialdefault(bound = "T fmt.Stringer")  on a type: explicit bounds
  //partialdefault                             on a union variant: the default
  //partialdefault(value = "10")               on a field: override expression

Use from go generate:
  //go:generate partialdefault

Examples:
  partialdefault                      # Current package
  partialdefault ./...                # Every package of the module
  partialdefault -t Config,Event      # Selected types only
  partialdefault -o - ./shapes        # Print instead of writing
  partialdefault check ./...          # Fail when generated code is stale`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runGenerate,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: partialdefault.toml in this or a parent directory)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Log as JSON lines")
	RootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	RootCmd.PersistentFlags().StringSliceVarP(&typeNames, "types", "t", nil, "Types to generate, instead of those marked //partialdefault:derive")

	RootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, - for stdout (default: <dir>/<package>_partialdefault.go)")

	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// setup initializes configuration and the global logger before any command
// runs.
func setup(cmd *cobra.Command, args []string) error {
	config.SetConfigFile(configPath)
	cfg, err := config.Load()
	if err != nil {
		// Log with defaults so the failure is still reported in the chosen format
		_ = logger.Initialize(jsonLogs, verbosity)
		return errors.Wrap(err, "failed to load config")
	}

	if err := logger.Initialize(jsonLogs || cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if path := config.Path(); path != "" {
		logger.Debugw("Loaded config", "file", path)
	}
	return nil
}
