// Package config loads generator settings from defaults, partialdefault.toml
// and PARTIALDEFAULT_* environment variables.
package config

// Config represents the generator configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" yaml:"generate" json:"generate"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
}

// GenerateConfig configures the derive pipeline
type GenerateConfig struct {
	Workers       int    `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`                             // Concurrent derivations per package (default: 4)
	RuntimeImport string `mapstructure:"runtime_import" toml:"runtime_import" yaml:"runtime_import" json:"runtime_import"` // Import path of Value, Defaulter and Register
}

// OutputConfig configures generated file naming
type OutputConfig struct {
	Suffix string `mapstructure:"suffix" toml:"suffix" yaml:"suffix" json:"suffix"` // Appended to the package name (default: _partialdefault.go)
}

// WatchConfig configures watch mode
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"` // Quiet period before regenerating (default: 300)
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
}

// FileName is the project configuration file searched for by Load
const FileName = "partialdefault.toml"

// EnvPrefix prefixes environment overrides, e.g. PARTIALDEFAULT_GENERATE_WORKERS
const EnvPrefix = "PARTIALDEFAULT"
