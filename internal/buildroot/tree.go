package buildroot

import (
	"fmt"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// requiredSubdirs is the layout a main Buildroot tree must have.
var requiredSubdirs = [...]string{
	"board",
	"boot",
	"configs",
	"fs",
	"linux",
	"package",
	"toolchain",
	"utils",
}

const (
	manifestName    = "external.desc"
	defconfigSuffix = "_defconfig"
	packageSuffix   = ".mk"
)

// treeIndex maps defconfig and package names to their file paths within
// one tree.
type treeIndex struct {
	defconfigs map[string]string
	packages   map[string]string
}

// indexTree walks a tree root once, classifying regular files by suffix.
// Colliding names within one tree are silently replaced; traversal order
// is not guaranteed.
func indexTree(fsys billy.Filesystem, root string) (treeIndex, error) {
	idx := treeIndex{
		defconfigs: make(map[string]string),
		packages:   make(map[string]string),
	}
	walk := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		name := info.Name()
		switch {
		case strings.HasSuffix(name, defconfigSuffix):
			idx.defconfigs[name] = path
		case strings.HasSuffix(name, packageSuffix):
			idx.packages[strings.TrimSuffix(name, packageSuffix)] = path
		}
		return nil
	}
	if err := util.Walk(fsys, root, walk); err != nil {
		return treeIndex{}, fmt.Errorf("walk tree %s: %w", root, err)
	}
	return idx, nil
}

// ExternalInfo is the name/description pair declared by an external tree
// manifest.
type ExternalInfo struct {
	Name string
	Desc string
}

// readManifest parses an external.desc manifest: exactly two
// colon-delimited key/value lines, keys name and desc in any order.
func readManifest(fsys billy.Filesystem, path string) (ExternalInfo, error) {
	contents, err := util.ReadFile(fsys, path)
	if err != nil {
		return ExternalInfo{}, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, path, err)
	}
	lines := strings.Split(strings.TrimRight(string(contents), "\n"), "\n")
	if len(lines) != 2 {
		return ExternalInfo{}, fmt.Errorf("%w: %s: expected 2 entries, got %d", ErrInvalidManifest, path, len(lines))
	}
	var info ExternalInfo
	for _, line := range lines {
		fields := strings.Split(line, ":")
		if len(fields) != 2 {
			return ExternalInfo{}, fmt.Errorf("%w: %s: malformed line %q", ErrInvalidManifest, path, line)
		}
		value := strings.TrimSpace(fields[1])
		switch fields[0] {
		case "name":
			info.Name = value
		case "desc":
			info.Desc = value
		default:
			return ExternalInfo{}, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidManifest, path, fields[0])
		}
	}
	return info, nil
}

// tree is one indexed source tree. external is nil for the main tree.
type tree struct {
	root     string
	external *ExternalInfo
	index    treeIndex
}

// mainTree validates the required subdirectory layout, then indexes.
func mainTree(fsys billy.Filesystem, root string) (tree, error) {
	for _, dir := range requiredSubdirs {
		info, err := fsys.Stat(fsys.Join(root, dir))
		if err != nil || !info.IsDir() {
			return tree{}, fmt.Errorf("%w: %s: missing %s/", ErrInvalidTree, root, dir)
		}
	}
	idx, err := indexTree(fsys, root)
	if err != nil {
		return tree{}, err
	}
	return tree{root: root, index: idx}, nil
}

// externalTree validates the manifest, then indexes. External trees have
// no required layout beyond the manifest.
func externalTree(fsys billy.Filesystem, root string) (tree, error) {
	info, err := readManifest(fsys, fsys.Join(root, manifestName))
	if err != nil {
		return tree{}, err
	}
	idx, err := indexTree(fsys, root)
	if err != nil {
		return tree{}, err
	}
	return tree{root: root, external: &info, index: idx}, nil
}
