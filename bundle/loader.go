package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load the bundler config from a file
func LoadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot read the bundler config file '%s': %w", filename, err)
	}
	cfg, err := LoadConfigFromBytes(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}
	// Resolution is relative to the config file unless the config says otherwise.
	if cfg.ResolveDir == "." {
		cfg.ResolveDir = filepath.Dir(filename)
	}
	return cfg, nil
}

// Load the bundler config from byte array
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	var cfg Config
	var err error

	// Set defaults
	cfg.OutputDir = "static"
	cfg.ResolveDir = "."
	cfg.URLPrefix = "/static"
	cfg.Target = "es2015"

	if format == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else if format == ".yaml" || format == ".yml" {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		// Try JSON decoding by default if format is unknown or missing
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			// If JSON fails, try YAML as a fallback
			errYaml := yaml.Unmarshal(data, &cfg)
			if errYaml != nil {
				return nil, fmt.Errorf("invalid format. JSON error: %v, YAML error: %v", err, errYaml)
			}
			err = nil // YAML succeeded
		}
	}

	if err != nil {
		return nil, fmt.Errorf("config parsing failed (format: %s): %w", format, err)
	}

	// Basic Validation
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("the field 'outputDir' must not be empty")
	}
	if _, err := targetFor(cfg.Target); err != nil {
		return nil, err
	}

	return &cfg, nil
}
