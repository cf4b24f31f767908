package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseCatalog(t *testing.T) {
	cat := loadTestCatalog(t)

	assert.Equal(t, []string{"GLib-2.0", "Gtk-3.0", "Json-1.0"}, cat.names())
	assert.Equal(t, "GLib", cat.Namespaces[0].Name, "namespaces are sorted by name")

	gtk, ok := cat.Namespace("gir:Gtk-3.0")
	require.True(t, ok)
	assert.Equal(t, "The GTK toolkit", gtk.Doc)
	require.Len(t, gtk.Classes, 2)
	assert.Equal(t, "Window", gtk.Classes[0].Name)
	assert.Len(t, gtk.Classes[0].Properties, 2)

	_, ok = cat.Namespace("gir:Gtk-4.0")
	assert.False(t, ok)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "namespaces: [\n"},
		{"unnamed namespace", "namespaces:\n  - version: \"1.0\"\n"},
		{"duplicate namespace", "namespaces:\n  - name: Gtk\n    version: \"3.0\"\n  - name: Gtk\n    version: \"3.0\"\n"},
		{"unnamed class", "namespaces:\n  - name: Gtk\n    classes:\n      - doc: nameless\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFileSource(t *testing.T) {
	src := &FileSource{Path: filepath.Join("testdata", "catalog.yaml")}
	cat, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cat.Namespaces, 3)

	missing := &FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err = missing.Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Json-1.0.gir", "Gtk-3.0.gir", "GdkPixbuf-2.0.gir", "Plain.gir", "README.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Nested-1.0.gir"), 0755))

	cat, err := NewDirSource(dir, "").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GdkPixbuf-2.0", "Gtk-3.0", "Json-1.0", "Plain"}, cat.names())

	gtk, ok := cat.Namespace("gir:Gtk-3.0")
	require.True(t, ok)
	assert.Equal(t, "Gtk", gtk.Name)
	assert.Equal(t, "3.0", gtk.Version)
	assert.Empty(t, gtk.Classes)

	only, err := NewDirSource(dir, "G*.gir").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GdkPixbuf-2.0", "Gtk-3.0"}, only.names())

	_, err = NewDirSource(filepath.Join(dir, "absent"), "").Load(context.Background())
	assert.Error(t, err)

	def := NewDirSource("", "")
	assert.Equal(t, DefaultGirDir, def.Dir)
	assert.Equal(t, DefaultGirPattern, def.Pattern)
}

func TestDirSource_Watch(t *testing.T) {
	dir := t.TempDir()
	src := NewDirSource(dir, "")

	changed := make(chan struct{}, 8)
	w, err := src.watch(context.Background(), 10*time.Millisecond, func() {
		changed <- struct{}{}
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, w.Stop()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Gtk-3.0.gir"), []byte("x"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for a new .gir file")
	}
}

func TestDirSource_WatchMissingDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "absent"), "").Watch(context.Background(), func() {})
	assert.Error(t, err)
}

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	cat, err := ParseCatalog(data)
	require.NoError(t, err)
	return cat
}
