// Package names derives the canonical variable stem used to address a
// package in defconfig symbols and descriptor variables.
package names

import "strings"

// Canonical returns the canonical stem for a package name: upper-cased,
// with hyphens replaced by underscores.
func Canonical(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
