// Package pkginfo reads the declared properties of a Buildroot package
// from its .mk descriptor and can rewrite the declared version in place.
package pkginfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/embedtools/br2kit/internal/names"
)

var (
	// ErrInvalidFilename reports a descriptor path with no usable base name.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrInvalidVariable reports a property line that is not a single
	// assignment.
	ErrInvalidVariable = errors.New("invalid variable")
	// ErrMissingVariable reports a required property absent from the
	// descriptor.
	ErrMissingVariable = errors.New("missing variable")
)

// propertyKeys is the fixed set of properties recognized in a descriptor.
var propertyKeys = [...]string{"version", "site", "source", "license", "dependencies"}

// Info holds the declared properties of one package.
type Info struct {
	name       string
	properties map[string]string
}

// FromPath reads package information from the descriptor at path. The
// package name is the file's base name without extension.
func FromPath(fsys billy.Filesystem, path string) (*Info, error) {
	name, err := stemOf(path)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open package %s: %w", path, err)
	}
	defer f.Close()
	info, err := FromReader(name, f)
	if err != nil {
		return nil, fmt.Errorf("parse package %s: %w", path, err)
	}
	return info, nil
}

// FromReader reads package information for the named package from r.
// A line defines a property iff it starts with the property's canonical
// variable name; the last matching line wins. The version property is
// required.
func FromReader(name string, r io.Reader) (*Info, error) {
	stem := names.Canonical(name)
	properties := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		for _, key := range propertyKeys {
			if !strings.HasPrefix(line, stem+"_"+strings.ToUpper(key)) {
				continue
			}
			fields := strings.Split(line, "=")
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidVariable, line)
			}
			properties[key] = strings.TrimSpace(fields[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read package %s: %w", name, err)
	}
	if _, ok := properties["version"]; !ok {
		return nil, fmt.Errorf("%w: version", ErrMissingVariable)
	}
	return &Info{name: name, properties: properties}, nil
}

// Name returns the name of the package.
func (i *Info) Name() string {
	return i.name
}

// Version returns the declared version of the package.
func (i *Info) Version() string {
	return i.properties["version"]
}

// Properties returns the declared properties of the package.
func (i *Info) Properties() map[string]string {
	return i.properties
}

// stemOf returns the base name of path without its extension.
func stemOf(path string) (string, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, path)
	}
	return name, nil
}
