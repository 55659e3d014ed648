package pkginfo

import (
	"errors"
	"fmt"
	"regexp"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/embedtools/br2kit/internal/names"
)

// ErrVersionNotFound reports a descriptor with no version assignment to
// rewrite.
var ErrVersionNotFound = errors.New("version assignment not found")

// SetVersion rewrites the declared version inside the descriptor at path,
// leaving every other byte of the file untouched.
func SetVersion(fsys billy.Filesystem, path, version string) error {
	name, err := stemOf(path)
	if err != nil {
		return err
	}
	text, err := util.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read package %s: %w", path, err)
	}
	rewritten, err := replaceVersion(text, name, version)
	if err != nil {
		return fmt.Errorf("rewrite package %s: %w", path, err)
	}
	if err := util.WriteFile(fsys, path, rewritten, 0o644); err != nil {
		return fmt.Errorf("write package %s: %w", path, err)
	}
	return nil
}

// replaceVersion substitutes the value of the first version assignment
// for the named package, preserving the assignment prefix (including its
// spacing) verbatim.
func replaceVersion(text []byte, name, version string) ([]byte, error) {
	pattern, err := regexp.Compile(`(` + regexp.QuoteMeta(names.Canonical(name)) + `_VERSION\s*=\s*)(.+)`)
	if err != nil {
		return nil, err
	}
	m := pattern.FindSubmatchIndex(text)
	if m == nil {
		return nil, ErrVersionNotFound
	}
	// Splice the new version into the byte range of the captured value.
	start, end := m[4], m[5]
	result := make([]byte, 0, start+len(version)+len(text)-end)
	result = append(result, text[:start]...)
	result = append(result, version...)
	result = append(result, text[end:]...)
	return result, nil
}
