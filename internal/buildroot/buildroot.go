// Package buildroot discovers and aggregates Buildroot source trees: one
// main tree plus any number of external trees, exposing union queries
// over the defconfigs and packages found in each.
package buildroot

import (
	"context"
	"errors"
	"fmt"

	billy "github.com/go-git/go-billy/v5"

	"github.com/embedtools/br2kit/internal/builder"
	"github.com/embedtools/br2kit/internal/ctxlog"
	"github.com/embedtools/br2kit/internal/defconfig"
	"github.com/embedtools/br2kit/internal/pkginfo"
)

var (
	// ErrInvalidTree reports a main tree missing required subdirectories.
	ErrInvalidTree = errors.New("invalid buildroot tree")
	// ErrInvalidManifest reports a broken or missing external tree
	// manifest.
	ErrInvalidManifest = errors.New("invalid external tree manifest")
	// ErrUnknownDefconfig reports a defconfig name absent from every tree.
	ErrUnknownDefconfig = errors.New("unknown defconfig")
	// ErrUnknownPackage reports a package name absent from every tree.
	ErrUnknownPackage = errors.New("unknown package")
)

// Explorer collects tree roots before validating and indexing them.
type Explorer struct {
	fsys      billy.Filesystem
	main      string
	externals []string
}

// NewExplorer returns an Explorer using main as the main Buildroot tree.
func NewExplorer(fsys billy.Filesystem, main string) *Explorer {
	return &Explorer{fsys: fsys, main: main}
}

// ExternalTree adds an external source tree to be explored, after any
// previously added ones.
func (e *Explorer) ExternalTree(path string) *Explorer {
	e.externals = append(e.externals, path)
	return e
}

// Explore validates and indexes every tree, main tree first, then
// externals in the order given. Construction is atomic: any tree failing
// to validate or index fails the whole exploration.
func (e *Explorer) Explore(ctx context.Context) (*Buildroot, error) {
	log := ctxlog.FromContext(ctx)
	main, err := mainTree(e.fsys, e.main)
	if err != nil {
		return nil, err
	}
	log.Debug("indexed main tree",
		"path", e.main,
		"defconfigs", len(main.index.defconfigs),
		"packages", len(main.index.packages))
	trees := make([]tree, 0, len(e.externals)+1)
	trees = append(trees, main)
	for _, root := range e.externals {
		t, err := externalTree(e.fsys, root)
		if err != nil {
			return nil, err
		}
		log.Debug("indexed external tree",
			"path", root,
			"name", t.external.Name,
			"defconfigs", len(t.index.defconfigs),
			"packages", len(t.index.packages))
		trees = append(trees, t)
	}
	return &Buildroot{fsys: e.fsys, trees: trees}, nil
}

// Buildroot is the read-only union view over a main tree and its external
// trees. Queries search trees in order, main tree first; a name present
// in several trees resolves to its first occurrence.
type Buildroot struct {
	fsys  billy.Filesystem
	trees []tree
}

// Entry pairs an indexed name with the path it resolves to.
type Entry struct {
	Name string
	Path string
}

// Defconfigs returns the name and path of every indexed defconfig, tree
// by tree.
func (b *Buildroot) Defconfigs() []Entry {
	var entries []Entry
	for _, t := range b.trees {
		for name, path := range t.index.defconfigs {
			entries = append(entries, Entry{Name: name, Path: path})
		}
	}
	return entries
}

// Packages returns the name and path of every indexed package, tree by
// tree.
func (b *Buildroot) Packages() []Entry {
	var entries []Entry
	for _, t := range b.trees {
		for name, path := range t.index.packages {
			entries = append(entries, Entry{Name: name, Path: path})
		}
	}
	return entries
}

func (b *Buildroot) findDefconfig(name string) (string, bool) {
	for _, t := range b.trees {
		if path, ok := t.index.defconfigs[name]; ok {
			return path, true
		}
	}
	return "", false
}

func (b *Buildroot) findPackage(name string) (string, bool) {
	for _, t := range b.trees {
		if path, ok := t.index.packages[name]; ok {
			return path, true
		}
	}
	return "", false
}

// GetDefconfig parses the defconfig named name.
func (b *Buildroot) GetDefconfig(name string) (*defconfig.Defconfig, error) {
	path, ok := b.findDefconfig(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefconfig, name)
	}
	return defconfig.FromPath(b.fsys, path)
}

// GetPackageVersion returns the declared version of the package named
// name.
func (b *Buildroot) GetPackageVersion(name string) (string, error) {
	path, ok := b.findPackage(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	info, err := pkginfo.FromPath(b.fsys, path)
	if err != nil {
		return "", err
	}
	return info.Version(), nil
}

// SetPackageVersion rewrites the declared version of the package named
// name on disk. The in-memory index is unaffected: it maps names to
// paths, not values.
func (b *Buildroot) SetPackageVersion(name, version string) error {
	path, ok := b.findPackage(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	return pkginfo.SetVersion(b.fsys, path, version)
}

// CreateBuilder resolves the named defconfig and captures every tree root
// into a Builder ready to drive the build tool.
func (b *Buildroot) CreateBuilder(name, output string) (*builder.Builder, error) {
	path, ok := b.findDefconfig(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefconfig, name)
	}
	externals := make([]string, 0, len(b.trees)-1)
	for _, t := range b.trees[1:] {
		externals = append(externals, t.root)
	}
	return &builder.Builder{
		Defconfig: path,
		Output:    output,
		Main:      b.trees[0].root,
		Externals: externals,
	}, nil
}

// Build resolves the named defconfig and runs one build step.
func (b *Buildroot) Build(ctx context.Context, name, output string, step builder.Step, r builder.Runner) error {
	bld, err := b.CreateBuilder(name, output)
	if err != nil {
		return err
	}
	return bld.RunStep(ctx, r, step)
}
