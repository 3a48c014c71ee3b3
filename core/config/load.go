package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads the configuration at path, which may be the config file itself
// or the directory containing it. Fields the file leaves out keep their
// default values.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	if isDir, err := afero.IsDir(fs, path); err == nil && isDir {
		path = filepath.Join(path, ConfigurationName)
	}

	configContents, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	out := Default()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return out, nil
}

// Initialize writes the default configuration into dir and returns its path.
// An existing configuration is never overwritten.
func Initialize(fs afero.Fs, dir string, logger *log.Logger) (string, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ConfigurationName)
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%s already exists", path)
	}

	logger.Printf("Writing default configuration to %s\n", path)
	if err := afero.WriteFile(fs, path, defaultConfigData, 0644); err != nil {
		return "", err
	}

	return path, nil
}
