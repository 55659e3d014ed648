// Package config loads the optional br2kit configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config carries tool-level defaults shared by both binaries. All
// attributes are optional; command-line flags take precedence.
type Config struct {
	Main      string   `hcl:"main,optional"`
	Externals []string `hcl:"externals,optional"`
	Storage   string   `hcl:"storage,optional"`
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "br2kit", "config.hcl"), nil
}

// DefaultStorage returns the per-user build-definition store location.
func DefaultStorage() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "br2kit", "masonry.db"), nil
}

// Load reads the configuration file at path. When explicit is false a
// missing file yields an empty configuration instead of an error.
func Load(path string, explicit bool) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
