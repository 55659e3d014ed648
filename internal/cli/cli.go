// Package cli carries the helpers shared by the br2-clerk and br2-mason
// command trees.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/embedtools/br2kit/internal/buildroot"
	"github.com/embedtools/br2kit/internal/config"
)

// NewLogger returns the stderr logger used by both binaries. verbose
// raises the level to debug.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadConfig loads the configuration file named by path, falling back to
// the per-user default location when path is empty.
func LoadConfig(path string) (config.Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			// No per-user location available; run on flags alone.
			return config.Config{}, nil
		}
	}
	return config.Load(path, explicit)
}

// ExploreTrees validates and indexes the main tree and any external
// trees. An empty main falls back to the current directory; all paths are
// resolved to absolute form.
func ExploreTrees(ctx context.Context, main string, externals []string) (*buildroot.Buildroot, error) {
	if main == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve current directory: %w", err)
		}
		main = cwd
	}
	main, err := filepath.Abs(main)
	if err != nil {
		return nil, fmt.Errorf("resolve main tree %s: %w", main, err)
	}
	explorer := buildroot.NewExplorer(osfs.New("/"), main)
	for _, external := range externals {
		abs, err := filepath.Abs(external)
		if err != nil {
			return nil, fmt.Errorf("resolve external tree %s: %w", external, err)
		}
		explorer.ExternalTree(abs)
	}
	return explorer.Explore(ctx)
}
