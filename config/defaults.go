package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.workers", 4)
	v.SetDefault("generate.runtime_import", "github.com/teranos/partialdefault")

	v.SetDefault("output.suffix", "_partialdefault.go")

	v.SetDefault("watch.debounce_ms", 300)

	v.SetDefault("log.json", false)
}
