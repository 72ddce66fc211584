package tfstate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeState(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleState = `{
	"version": 4,
	"serial": 7,
	"lineage": "ab-cd",
	"outputs": {
		"endpoint": {"value": "https://example.test", "type": "string", "sensitive": false}
	},
	"resources": [
		{"type": "aws_instance", "name": "web"}
	]
}`

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	state, err := Load(filepath.Join(t.TempDir(), "nope.tfstate"))
	require.NoError(t, err)
	require.True(t, state.IsEmpty())
	_, ok := state.Get("version")
	require.False(t, ok)
}

func TestLoadMalformedJSONReturnsParseError(t *testing.T) {
	path := writeState(t, t.TempDir(), "broken.tfstate", "{not json")

	_, err := Load(path)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, path, parseErr.Path)
}

func TestLoadAndLookup(t *testing.T) {
	path := writeState(t, t.TempDir(), "terraform.tfstate", sampleState)

	state, err := Load(path)
	require.NoError(t, err)
	require.False(t, state.IsEmpty())
	require.Equal(t, path, state.Path())
	require.Equal(t, 4, state.Version())
	require.Equal(t, 7, state.Serial())

	endpoint, ok := state.GetString("outputs.endpoint.value")
	require.True(t, ok)
	require.Equal(t, "https://example.test", endpoint)

	require.Len(t, state.Resources(), 1)
	require.Contains(t, state.Outputs(), "endpoint")
}

func TestGetMissingAndNonObjectPaths(t *testing.T) {
	path := writeState(t, t.TempDir(), "terraform.tfstate", sampleState)
	state, err := Load(path)
	require.NoError(t, err)

	_, ok := state.Get("outputs.missing")
	require.False(t, ok)
	// traversal through a scalar
	_, ok = state.Get("serial.nested")
	require.False(t, ok)
	_, ok = state.Get("")
	require.False(t, ok)
}

func TestLoadIsIdempotent(t *testing.T) {
	path := writeState(t, t.TempDir(), "terraform.tfstate", sampleState)

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestLoadRereadsFreshContent(t *testing.T) {
	dir := t.TempDir()
	path := writeState(t, dir, "terraform.tfstate", `{"serial": 1}`)

	first, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, first.Serial())

	writeState(t, dir, "terraform.tfstate", `{"serial": 2}`)
	second, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, second.Serial())
}

func TestResolvePathExplicitWins(t *testing.T) {
	dir := t.TempDir()
	got := ResolvePath(dir, "explicit.tfstate", "configured.tfstate")
	require.Equal(t, filepath.Join(dir, "explicit.tfstate"), got)
}

func TestResolvePathConfiguredFallback(t *testing.T) {
	dir := t.TempDir()
	got := ResolvePath(dir, "", "configured.tfstate")
	require.Equal(t, filepath.Join(dir, "configured.tfstate"), got)
}

func TestResolvePathBackendState(t *testing.T) {
	dir := t.TempDir()
	writeState(t, dir, filepath.Join(".terraform", "terraform.tfstate"), "{}")

	got := ResolvePath(dir, "", "")
	require.Equal(t, filepath.Join(dir, ".terraform", "terraform.tfstate"), got)
}

func TestResolvePathConventionalDefault(t *testing.T) {
	dir := t.TempDir()
	got := ResolvePath(dir, "", "")
	require.Equal(t, filepath.Join(dir, "terraform.tfstate"), got)
}

func TestResolvePathAbsoluteExplicit(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "somewhere.tfstate")
	got := ResolvePath("/elsewhere", abs, "")
	require.Equal(t, abs, got)
}
