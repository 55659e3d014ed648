package clerk

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPackage = `FOO_VERSION = 1.2.3
FOO_SITE = http://some/where
`

const testConfig = `BR2_PACKAGE_FOO=y
# BR2_PACKAGE_BAR is not set
`

// makeTree lays out a minimal valid Buildroot tree on the real
// filesystem and returns its root.
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"board", "boot", "configs", "fs", "linux", "package", "toolchain", "utils"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "configs", "acme_defconfig"), []byte(testConfig), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "package", "foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package", "foo", "foo.mk"), []byte(testPackage), 0o644))
	return root
}

func runClerk(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefconfigList(t *testing.T) {
	root := makeTree(t)
	out, err := runClerk(t, "--main", root, "defconfig", "list")
	require.NoError(t, err)
	assert.Equal(t, "acme_defconfig\n", out)
}

func TestDefconfigCheck(t *testing.T) {
	root := makeTree(t)
	out, err := runClerk(t, "--main", root, "defconfig", "check", "acme_defconfig", "foo")
	require.NoError(t, err)
	assert.Contains(t, out, "selects foo")

	out, err = runClerk(t, "--main", root, "defconfig", "check", "acme_defconfig", "bar")
	require.NoError(t, err)
	assert.Contains(t, out, "does not select bar")
}

func TestPackageList(t *testing.T) {
	root := makeTree(t)
	out, err := runClerk(t, "--main", root, "package", "list")
	require.NoError(t, err)
	assert.Equal(t, "foo\n", out)

	out, err = runClerk(t, "--main", root, "package", "list", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "1.2.3")
}

func TestPackageBump(t *testing.T) {
	root := makeTree(t)
	_, err := runClerk(t, "--main", root, "package", "bump", "foo", "3.2.1")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "package", "foo", "foo.mk"))
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(testPackage, "1.2.3", "3.2.1", 1), string(got))
}

func TestInvalidTreeFails(t *testing.T) {
	_, err := runClerk(t, "--main", t.TempDir(), "defconfig", "list")
	assert.Error(t, err)
}
