package buildroot

import (
	"context"
	"strings"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedtools/br2kit/internal/builder"
)

const templatePackage = `
@NAME@_VERSION = 1.2.3

@NAME@_SITE = http://some/where

`

const templateConfig = `
BR2_PACKAGE_FOO=y
# BR2_PACKAGE_BAR is not set
`

func mockConfig(t *testing.T, fsys billy.Filesystem, dir, name string) {
	t.Helper()
	path := fsys.Join(dir, name+"_defconfig")
	require.NoError(t, util.WriteFile(fsys, path, []byte(templateConfig), 0o644))
}

func mockPackage(t *testing.T, fsys billy.Filesystem, dir, name string) {
	t.Helper()
	contents := strings.ReplaceAll(templatePackage, "@NAME@", strings.ToUpper(name))
	path := fsys.Join(dir, name, name+".mk")
	require.NoError(t, util.WriteFile(fsys, path, []byte(contents), 0o644))
}

// mockTree lays out a valid main Buildroot tree with two defconfigs and
// two packages.
func mockTree(t *testing.T, fsys billy.Filesystem, root string) {
	t.Helper()
	for _, dir := range requiredSubdirs {
		path := fsys.Join(root, dir)
		require.NoError(t, fsys.MkdirAll(path, 0o755))
		switch dir {
		case "configs":
			mockConfig(t, fsys, path, "acme_quux")
			mockConfig(t, fsys, path, "frob_wuz")
		case "package":
			mockPackage(t, fsys, path, "foo")
			mockPackage(t, fsys, path, "bar")
		}
	}
}

// mockExternal lays out an external tree carrying one package and its
// manifest.
func mockExternal(t *testing.T, fsys billy.Filesystem, root, pkg, version string) {
	t.Helper()
	manifest := "name: EXT\ndesc: An external tree\n"
	require.NoError(t, util.WriteFile(fsys, fsys.Join(root, manifestName), []byte(manifest), 0o644))
	contents := strings.ReplaceAll(templatePackage, "@NAME@", strings.ToUpper(pkg))
	contents = strings.Replace(contents, "1.2.3", version, 1)
	require.NoError(t, util.WriteFile(fsys, fsys.Join(root, "package", pkg, pkg+".mk"), []byte(contents), 0o644))
}

func explore(t *testing.T, fsys billy.Filesystem, main string, externals ...string) *Buildroot {
	t.Helper()
	e := NewExplorer(fsys, main)
	for _, ext := range externals {
		e.ExternalTree(ext)
	}
	br, err := e.Explore(context.Background())
	require.NoError(t, err)
	return br
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestExplore_ValidTree(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	br := explore(t, fsys, "/br")

	assert.ElementsMatch(t, []string{"acme_quux_defconfig", "frob_wuz_defconfig"}, names(br.Defconfigs()))
	assert.ElementsMatch(t, []string{"foo", "bar"}, names(br.Packages()))
}

func TestExplore_MissingSubdirFails(t *testing.T) {
	fsys := memfs.New()
	// Every required directory except toolchain.
	for _, dir := range requiredSubdirs {
		if dir == "toolchain" {
			continue
		}
		require.NoError(t, fsys.MkdirAll(fsys.Join("/br", dir), 0o755))
	}

	_, err := NewExplorer(fsys, "/br").Explore(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTree)
}

func TestExplore_ExternalManifest(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")

	// Missing manifest.
	require.NoError(t, fsys.MkdirAll("/ext", 0o755))
	_, err := NewExplorer(fsys, "/br").ExternalTree("/ext").Explore(context.Background())
	assert.ErrorIs(t, err, ErrInvalidManifest)

	// Unknown key.
	require.NoError(t, util.WriteFile(fsys, "/ext/external.desc", []byte("name: X\nflavor: odd\n"), 0o644))
	_, err = NewExplorer(fsys, "/br").ExternalTree("/ext").Explore(context.Background())
	assert.ErrorIs(t, err, ErrInvalidManifest)

	// Wrong line count.
	require.NoError(t, util.WriteFile(fsys, "/ext/external.desc", []byte("name: X\n"), 0o644))
	_, err = NewExplorer(fsys, "/br").ExternalTree("/ext").Explore(context.Background())
	assert.ErrorIs(t, err, ErrInvalidManifest)

	// Valid manifest, any key order.
	require.NoError(t, util.WriteFile(fsys, "/ext/external.desc", []byte("desc: tree\nname: X\n"), 0o644))
	_, err = NewExplorer(fsys, "/br").ExternalTree("/ext").Explore(context.Background())
	assert.NoError(t, err)
}

func TestGetPackageVersion(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	br := explore(t, fsys, "/br")

	version, err := br.GetPackageVersion("foo")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)

	_, err = br.GetPackageVersion("nope")
	assert.ErrorIs(t, err, ErrUnknownPackage)
}

func TestGetPackageVersion_MainTreeShadowsExternal(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	mockExternal(t, fsys, "/ext", "foo", "9.9.9")
	br := explore(t, fsys, "/br", "/ext")

	// foo exists in both trees; the main tree wins.
	version, err := br.GetPackageVersion("foo")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)
}

func TestExternalTreeContributesPackages(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	mockExternal(t, fsys, "/ext", "baz", "4.5.6")
	br := explore(t, fsys, "/br", "/ext")

	version, err := br.GetPackageVersion("baz")
	require.NoError(t, err)
	assert.Equal(t, "4.5.6", version)
}

func TestSetPackageVersion(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	br := explore(t, fsys, "/br")

	require.NoError(t, br.SetPackageVersion("foo", "3.2.1"))
	version, err := br.GetPackageVersion("foo")
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", version)

	assert.ErrorIs(t, br.SetPackageVersion("nope", "1.0"), ErrUnknownPackage)
}

func TestGetDefconfig(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	br := explore(t, fsys, "/br")

	d, err := br.GetDefconfig("acme_quux_defconfig")
	require.NoError(t, err)
	assert.True(t, d.Selects("foo"))
	assert.False(t, d.Selects("bar"))

	_, err = br.GetDefconfig("nope_defconfig")
	assert.ErrorIs(t, err, ErrUnknownDefconfig)
}

func TestIndexIdempotence(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")

	first := explore(t, fsys, "/br")
	second := explore(t, fsys, "/br")
	assert.ElementsMatch(t, names(first.Defconfigs()), names(second.Defconfigs()))
	assert.ElementsMatch(t, names(first.Packages()), names(second.Packages()))
}

func TestCreateBuilder(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	mockExternal(t, fsys, "/ext", "baz", "1.0")
	br := explore(t, fsys, "/br", "/ext")

	bld, err := br.CreateBuilder("acme_quux_defconfig", "/out")
	require.NoError(t, err)
	assert.Equal(t, "/br/configs/acme_quux_defconfig", bld.Defconfig)
	assert.Equal(t, "/out", bld.Output)
	assert.Equal(t, "/br", bld.Main)
	assert.Equal(t, []string{"/ext"}, bld.Externals)

	_, err = br.CreateBuilder("nope_defconfig", "/out")
	assert.ErrorIs(t, err, ErrUnknownDefconfig)
}

// recordingRunner counts invocations for Build.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

func TestBuild(t *testing.T) {
	fsys := memfs.New()
	mockTree(t, fsys, "/br")
	br := explore(t, fsys, "/br")

	r := &recordingRunner{}
	require.NoError(t, br.Build(context.Background(), "acme_quux_defconfig", "/out", builder.StepAll, r))
	assert.Len(t, r.calls, 2)
}
