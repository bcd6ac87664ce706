package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionsDefaultsToBuild(t *testing.T) {
	set, err := ParseActions(nil)
	require.NoError(t, err)
	assert.True(t, set.Has(ActionBuild))
	assert.Len(t, set, 1)
}

func TestParseActionsAllExpandsToEveryAction(t *testing.T) {
	all, err := ParseActions([]string{"all"})
	require.NoError(t, err)

	individual, err := ParseActions([]string{"build", "test", "generate-xcodeproj", "install"})
	require.NoError(t, err)

	assert.Equal(t, individual, all)
}

func TestParseActionsRejectsUnknownName(t *testing.T) {
	_, err := ParseActions([]string{"deploy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy")
}

func TestResolveDefaultBuildDir(t *testing.T) {
	base := t.TempDir()
	inv, err := Resolve(Options{
		Toolchain: t.TempDir(),
		BaseDir:   base,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inv.PackagePath, ".build"), inv.BuildDir)
}

func TestResolvePackagePathRelativeToBaseDir(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "pkg"), 0o755))

	inv, err := Resolve(Options{
		Toolchain:   t.TempDir(),
		BaseDir:     base,
		PackagePath: "pkg",
	})
	require.NoError(t, err)

	expected := filepath.Join(base, "pkg")
	if resolved, serr := filepath.EvalSymlinks(expected); serr == nil {
		expected = resolved
	}
	assert.Equal(t, expected, inv.PackagePath)
	assert.Equal(t, "pkg", inv.PackageName())
}

func TestResolvePackagePathAbsoluteIgnoresBaseDir(t *testing.T) {
	pkg := t.TempDir()

	inv, err := Resolve(Options{
		Toolchain:   t.TempDir(),
		BaseDir:     t.TempDir(),
		PackagePath: pkg,
	})
	require.NoError(t, err)

	expected := pkg
	if resolved, serr := filepath.EvalSymlinks(expected); serr == nil {
		expected = resolved
	}
	assert.Equal(t, expected, inv.PackagePath)
}

func TestResolveRequiresToolchain(t *testing.T) {
	_, err := Resolve(Options{BaseDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--toolchain")
}

func TestResolveInstallRequiresInstallDir(t *testing.T) {
	_, err := Resolve(Options{
		Toolchain: t.TempDir(),
		BaseDir:   t.TempDir(),
		Actions:   []string{"install"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--install-dir")
}

func TestResolveRenderSourceWithoutDestination(t *testing.T) {
	_, err := Resolve(Options{
		Toolchain:  t.TempDir(),
		BaseDir:    t.TempDir(),
		RenderFrom: "render-template",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--copy-doccrender-to")
}

func TestResolveRejectsBadConfiguration(t *testing.T) {
	_, err := Resolve(Options{
		Toolchain:     t.TempDir(),
		BaseDir:       t.TempDir(),
		Configuration: "profile",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile")
}

func TestResolveSwiftExecDerivedFromToolchain(t *testing.T) {
	toolchain := t.TempDir()
	inv, err := Resolve(Options{Toolchain: toolchain, BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(toolchain, "bin", "swift"), inv.SwiftExec)
}

func TestResolveFileDefaultsAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "doccbuild.yaml")
	content := "configuration: release\nbuild_dir: " + filepath.Join(dir, "from-file") + "\nenv:\n  DOCC_HTML_DIR: /opt/render\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	// File value applies when the flag is unset.
	inv, err := Resolve(Options{
		Toolchain:  t.TempDir(),
		BaseDir:    t.TempDir(),
		ConfigFile: cfgPath,
	})
	require.NoError(t, err)
	assert.Equal(t, Release, inv.Configuration)
	assert.Equal(t, filepath.Join(dir, "from-file"), inv.BuildDir)
	assert.Equal(t, "/opt/render", inv.EnvOverlay["DOCC_HTML_DIR"])

	// Explicit flags win over the file.
	override := filepath.Join(dir, "from-flag")
	inv, err = Resolve(Options{
		Toolchain:     t.TempDir(),
		BaseDir:       t.TempDir(),
		ConfigFile:    cfgPath,
		Configuration: "debug",
		BuildDir:      override,
	})
	require.NoError(t, err)
	assert.Equal(t, Debug, inv.Configuration)
	assert.Equal(t, override, inv.BuildDir)
}

func TestResolveMissingConfigFile(t *testing.T) {
	_, err := Resolve(Options{
		Toolchain:  t.TempDir(),
		BaseDir:    t.TempDir(),
		ConfigFile: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveLocalDepsDefault(t *testing.T) {
	inv, err := Resolve(Options{Toolchain: t.TempDir(), BaseDir: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, inv.UseLocalDeps)

	inv, err = Resolve(Options{Toolchain: t.TempDir(), BaseDir: t.TempDir(), NoLocalDeps: true})
	require.NoError(t, err)
	assert.False(t, inv.UseLocalDeps)
}
