package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func writeFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeModule(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "node_modules", name)
	writeFile(t, dir, "package.json", fmt.Sprintf(`{"name":%q,"main":"index.js"}`, name))
	writeFile(t, dir, "index.js", content)
}

// fixtureTree lays out a minimal node_modules tree with stub marko packages
// plus the playground entry script.
func fixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeModule(t, dir, "marko", `module.exports = { marker: "MARKO_RUNTIME_OK" };`)
	writeFile(t, filepath.Join(dir, "node_modules", "marko", "compiler"), "index.js",
		`module.exports = { marker: "MARKO_COMPILER_OK" };`)
	writeModule(t, dir, "marko-widgets", `module.exports = { marker: "MARKO_WIDGETS_OK" };`)
	writeModule(t, dir, "domready", `module.exports = function (fn) { fn(); };`)
	writeFile(t, dir, "source.js", `window.__SOURCE_RAN__ = "SOURCE_ENTRY_OK";`)
	return dir
}

func fixtureConfig(dir string) *Config {
	return &Config{
		OutputDir:  filepath.Join(dir, "static"),
		ResolveDir: dir,
		URLPrefix:  "/static",
		Target:     "es2015",
	}
}

// --- Tests ---

func TestGenerateEntry_PreservesDeclaredOrder(t *testing.T) {
	entry := GenerateEntry(DefaultRequest())

	want := `window.__modules__ = window.__modules__ || {};
require("./source.js");
window.__modules__["marko"] = function () { return require("marko"); };
window.__modules__["marko/compiler"] = function () { return require("marko/compiler"); };
window.__modules__["marko-widgets"] = function () { return require("marko-widgets"); };
window.__modules__["domready"] = function () { return require("domready"); };
`
	assert.Equal(t, want, entry)
}

func TestBuild_WritesBundle(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)

	res, err := NewBundler(cfg).Build(DefaultRequest())
	require.NoError(t, err)

	assert.Equal(t, "marko-browser", res.Name)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "marko-browser.js"), res.OutputPath)
	assert.Greater(t, res.Size, int64(0))

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, res.Size, int64(len(content)))

	// Every declared dependency made it into the bundle, and the lazy
	// registration map is present.
	assert.Contains(t, string(content), "MARKO_RUNTIME_OK")
	assert.Contains(t, string(content), "MARKO_COMPILER_OK")
	assert.Contains(t, string(content), "MARKO_WIDGETS_OK")
	assert.Contains(t, string(content), "SOURCE_ENTRY_OK")
	assert.Contains(t, string(content), "__modules__")
}

func TestBuild_SourceMaps(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)
	cfg.SourceMaps = true

	res, err := NewBundler(cfg).Build(DefaultRequest())
	require.NoError(t, err)
	assert.FileExists(t, res.OutputPath)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "marko-browser.js.map"))
}

func TestBuild_Fingerprint(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)
	cfg.Fingerprint = true

	res, err := NewBundler(cfg).Build(DefaultRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^marko-browser-[0-9a-f]{8}\.js$`), filepath.Base(res.OutputPath))
	assert.FileExists(t, res.OutputPath)
}

func TestBuild_AppendInitSnippet(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)
	cfg.AppendInitSnippet = true

	res, err := NewBundler(cfg).Build(DefaultRequest())
	require.NoError(t, err)

	content, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), InitSnippet),
		"bundle must end with the init snippet")
	assert.Equal(t, res.Size, int64(len(content)))
}

func TestBuild_UnresolvableDependency(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)

	req := &Request{
		Name: "marko-browser",
		Dependencies: []Dependency{
			{Kind: Require, Path: "definitely-not-installed"},
		},
	}

	_, err := NewBundler(cfg).Build(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bundle "marko-browser" failed`)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "marko-browser.js"))
}

func TestBuild_InvalidRequest(t *testing.T) {
	dir := fixtureTree(t)
	cfg := fixtureConfig(dir)

	_, err := NewBundler(cfg).Build(&Request{Name: "marko-browser"})
	require.Error(t, err)
}
