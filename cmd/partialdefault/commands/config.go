package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teranos/partialdefault/config"
	"github.com/teranos/partialdefault/errors"
)

// ConfigCmd groups configuration inspection commands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect generator configuration",
	Long: `Inspect generator configuration.

Configuration sources (in order of precedence):
1. Environment variables (PARTIALDEFAULT_* prefix, e.g. PARTIALDEFAULT_GENERATE_WORKERS)
2. --config <file>, or partialdefault.toml in this or a parent directory
3. Default values

Examples:
  partialdefault config show                 # Effective configuration as TOML
  partialdefault config show --format yaml   # ... as YAML
  partialdefault config where                # Which file is used`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", config.FormatTOML, "Output format: toml, yaml, json")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	data, err := config.Render(cfg, configFormat)
	if err != nil {
		return err
	}
	if configFormat != config.FormatJSON {
		fmt.Fprint(cmd.OutOrStdout(), "# partialdefault configuration\n")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	path := config.Path()
	if path == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s found; using defaults and environment\n", config.FileName)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	unknown, err := config.UnknownKeys(path)
	if err != nil {
		return err
	}
	for _, key := range unknown {
		fmt.Fprintf(cmd.OutOrStdout(), "  unknown key: %s\n", key)
	}
	return nil
}
