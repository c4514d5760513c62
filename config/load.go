package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/logger"
)

var (
	globalConfig *Config
	explicitPath string
	loadedPath   string
)

// SetConfigFile makes Load read path instead of searching for FileName.
func SetConfigFile(path string) {
	explicitPath = path
	Reset()
}

// Load reads the configuration: defaults, then the project file, then
// environment variables. The result is cached until Reset.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	path := explicitPath
	if path == "" {
		path = findProjectConfig()
	}

	cfg, err := load(path, true)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	loadedPath = path
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides.
func LoadFromFile(configPath string) (*Config, error) {
	return load(configPath, false)
}

// Path returns the file the cached configuration was read from, or "" when
// only defaults and environment variables applied.
func Path() string {
	return loadedPath
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	loadedPath = ""
}

func load(configPath string, env bool) (*Config, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		warnUnknownKeys(configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		if configPath != "" {
			return nil, errors.Wrapf(err, "invalid config %s", configPath)
		}
		return nil, errors.Wrap(err, "invalid config")
	}
	return &config, nil
}

// UnknownKeys returns the keys of a configuration file that no setting
// corresponds to, typically misspellings.
func UnknownKeys(configPath string) ([]string, error) {
	var config Config
	meta, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", configPath)
	}
	var keys []string
	for _, key := range meta.Undecoded() {
		keys = append(keys, key.String())
	}
	return keys, nil
}

func warnUnknownKeys(configPath string) {
	keys, err := UnknownKeys(configPath)
	if err != nil {
		logger.Debugw("Config key check skipped", "file", configPath, "error", err)
		return
	}
	if len(keys) > 0 {
		logger.Warnw("Unknown configuration keys",
			"file", configPath,
			"keys", keys)
	}
}

// findProjectConfig searches for partialdefault.toml by walking up the
// directory tree. Returns "" when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
