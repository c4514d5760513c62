package config

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"github.com/teranos/partialdefault/errors"
	"gopkg.in/yaml.v3"
)

// Formats supported by Render
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render marshals the configuration in the requested format.
func Render(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML:
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return data, nil

	case FormatYAML:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return data, nil

	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil

	default:
		return nil, errors.Newf("unsupported format: %s (supported: toml, yaml, json)", format)
	}
}
