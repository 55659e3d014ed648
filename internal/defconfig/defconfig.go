// Package defconfig parses Buildroot defconfig files and answers
// package-selection queries over them.
package defconfig

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/embedtools/br2kit/internal/names"
)

// Defconfig holds the parsed symbols of one defconfig, in file order.
type Defconfig struct {
	symbols []Symbol
}

// FromPath parses the defconfig file at path.
func FromPath(fsys billy.Filesystem, path string) (*Defconfig, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open defconfig %s: %w", path, err)
	}
	defer f.Close()
	d, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse defconfig %s: %w", path, err)
	}
	return d, nil
}

// FromReader parses defconfig text from r. Blank lines are skipped.
// Comment lines are skipped too, unless they end in "is not set": those
// are candidate unset-form symbols and must parse exactly, so a comment
// that only resembles the unset form fails the whole parse.
func FromReader(r io.Reader) (*Defconfig, error) {
	var symbols []Symbol
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasSuffix(line, "is not set") {
			continue
		}
		symbol, err := ParseSymbol(line)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read defconfig: %w", err)
	}
	return &Defconfig{symbols: symbols}, nil
}

// Symbols returns the parsed symbols in file order.
func (d *Defconfig) Symbols() []Symbol {
	return d.symbols
}

// Selects reports whether the defconfig selects the named package, i.e.
// whether the symbol BR2_PACKAGE_<stem> is set to y. With duplicate
// symbols the last boolean occurrence wins.
func (d *Defconfig) Selects(pkg string) bool {
	name := "BR2_PACKAGE_" + names.Canonical(pkg)
	selected := false
	for _, s := range d.symbols {
		if s.Name != name {
			continue
		}
		if b, ok := s.Value.(Bool); ok {
			selected = bool(b)
		}
	}
	return selected
}
