package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = "testdata/catalog.yaml"

// run executes the CLI in-process and returns what it wrote
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"docnav"}, args...))
	return out.String(), err
}

type nodeJSON struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Variant string `json:"variant"`
}

func TestListRoot(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "ls")
	require.NoError(t, err)

	assert.Contains(t, out, "(root)")
	core := strings.Index(out, "Core")
	formats := strings.Index(out, "File Formats")
	graphics := strings.Index(out, "Graphics")
	require.True(t, core >= 0 && formats >= 0 && graphics >= 0, out)
	assert.Less(t, core, formats)
	assert.Less(t, formats, graphics)
	assert.Contains(t, out, "platform:graphics")
}

func TestListRoot_JSON(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "--json", "ls")
	require.NoError(t, err)

	var nodes []nodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, "platform:core", nodes[0].ID)
	assert.Equal(t, "category", nodes[0].Variant)
}

func TestListPath(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "--json", "ls", "platform:graphics,gir:Gtk-3.0,gir:Gtk-3.0/classes")
	require.NoError(t, err)

	var nodes []nodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"gir:Gtk-3.0.Label", "gir:Gtk-3.0.Window"}, ids)
}

func TestTree(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "tree", "--depth", "2", "platform:graphics,gir:Gtk-3.0")
	require.NoError(t, err)

	assert.Contains(t, out, "Tree for 'Gtk'")
	assert.Contains(t, out, "Classes")
	assert.Contains(t, out, "Window")
	assert.Contains(t, out, "Label")
}

func TestTree_UnknownPath(t *testing.T) {
	_, err := run(t, "--catalog", testCatalog, "tree", "platform:graphics,gir:Nope-1.0")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "lookup", "gir:Gtk-3.0.Window")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Window"), out)
	assert.Contains(t, out, "Properties")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "Methods")
	assert.Contains(t, out, "present")
	assert.Contains(t, out, "doc: A toplevel window")
}

func TestLookup_JSONPath(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "--json", "lookup", "gir:Gtk-3.0.Window:title")
	require.NoError(t, err)

	var resp struct {
		Item     nodeJSON          `json:"item"`
		Metadata map[string]string `json:"metadata"`
		Path     []struct {
			ID string `json:"id"`
		} `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "title", resp.Item.Title)
	assert.Equal(t, "The window title", resp.Metadata["doc"])

	var ids []string
	for _, e := range resp.Path {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{
		"platform:graphics",
		"gir:Gtk-3.0",
		"gir:Gtk-3.0/classes",
		"gir:Gtk-3.0.Window",
		"gir:Gtk-3.0.Window/properties",
		"gir:Gtk-3.0.Window:title",
	}, ids)
}

func TestLookup_Errors(t *testing.T) {
	_, err := run(t, "--catalog", testCatalog, "lookup")
	assert.Error(t, err)

	_, err = run(t, "--catalog", testCatalog, "lookup", "gir:Nope-1.0")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "--json", "search", "--max", "5", "--variant", "member", "title")
	require.NoError(t, err)

	var nodes []nodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.NotEmpty(t, nodes)
	assert.LessOrEqual(t, len(nodes), 5)

	var ids []string
	for _, n := range nodes {
		assert.Equal(t, "member", n.Variant)
		ids = append(ids, n.ID)
	}
	assert.Contains(t, ids, "gir:Gtk-3.0.Window:title")
	assert.Contains(t, ids, "gir:Gtk-3.0.Window.set_title")
}

func TestSearch_Text(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "search", "toplevel")
	require.NoError(t, err)
	assert.Contains(t, out, "results for 'toplevel'")
}

func TestLanguages(t *testing.T) {
	out, err := run(t, "--catalog", testCatalog, "languages")
	require.NoError(t, err)
	assert.Equal(t, "C\nJavaScript\nLua\nPython\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docnav ")
}

func TestConfigFile_DisablesCategorizer(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docnav.kdl")
	catalog, err := filepath.Abs(testCatalog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sources {
    catalog "`+catalog+`"
}
categorizer {
    enabled false
}
`), 0o644))

	out, err := run(t, "--config", cfgPath, "--json", "ls")
	require.NoError(t, err)

	var nodes []nodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"gir:GLib-2.0", "gir:Gtk-3.0", "gir:Json-1.0"}, ids)
}

func TestTableOverride(t *testing.T) {
	table := filepath.Join(t.TempDir(), "categories.toml")
	require.NoError(t, os.WriteFile(table, []byte(`
[titles]
"custom:base" = "Base Libraries"

[mapping]
"gir:GLib-2.0" = "custom:base"
`), 0o644))

	out, err := run(t, "--catalog", testCatalog, "--table", table, "--json", "ls")
	require.NoError(t, err)

	var nodes []nodeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	var titles []string
	for _, n := range nodes {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"Base Libraries", "File Formats", "Graphics"}, titles)
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.kdl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("search {\n    fuzzy_threshold 3\n}\n"), 0o644))

	_, err := run(t, "--config", cfgPath, "ls")
	assert.Error(t, err)
}
