package categorize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

func scenarioTable() *Table {
	t := NewTable()
	t.Mapping["a:Gtk-3.0"] = "platform:graphics"
	t.Mapping["a:Json-1.0"] = "platform:formats"
	t.Titles["platform:graphics"] = "Graphics"
	t.Titles["platform:formats"] = "File Formats"
	return t
}

func rootCollection(t *testing.T, ids ...types.Identifier) (*tree.Session, *tree.Collection) {
	t.Helper()
	s := tree.NewSession()
	coll := tree.NewCollection(s, types.Path{})
	items := make([]*tree.Item, len(ids))
	for i, id := range ids {
		items[i] = tree.NewItem(id, string(id), types.VariantContainer)
	}
	require.NoError(t, coll.Commit(context.Background(), items...))
	return s, coll
}

func keys(coll *tree.Collection) []types.Identifier {
	var out []types.Identifier
	for _, it := range coll.Items() {
		out = append(out, it.Key())
	}
	return out
}

func childKeys(s *tree.Session, it *tree.Item) []types.Identifier {
	var out []types.Identifier
	for _, c := range it.Children(s) {
		out = append(out, c.Key())
	}
	return out
}

func TestPostprocess_Scenario(t *testing.T) {
	policy := Policy{Fallback: NoFallback(), Order: TitleDescending, Insertion: PrependEach}
	c, err := New("platform", scenarioTable(), policy)
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0", "a:Unknown-1.0")
	require.NoError(t, c.Postprocess(coll))

	assert.Equal(t, []types.Identifier{"platform:formats", "platform:graphics", "a:Unknown-1.0"}, keys(coll))

	formats := coll.At(0)
	assert.Equal(t, "File Formats", formats.Title())
	assert.Equal(t, types.VariantCategory, formats.Variant())
	assert.Equal(t, []types.Identifier{"a:Json-1.0"}, childKeys(s, formats))
	assert.Equal(t, []types.Identifier{"a:Gtk-3.0"}, childKeys(s, coll.At(1)))

	cached, ok := s.Lookup("platform:graphics")
	require.True(t, ok)
	assert.Same(t, coll.At(1), cached)
}

func TestPostprocess_Policies(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   []types.Identifier
	}{
		{"default block ascending", DefaultPolicy(), []types.Identifier{"platform:formats", "platform:graphics", "a:Unknown-1.0"}},
		{"block descending", Policy{Order: TitleDescending}, []types.Identifier{"platform:graphics", "platform:formats", "a:Unknown-1.0"}},
		{"platform prepend ascending", PlatformPolicy(), []types.Identifier{"platform:graphics", "platform:formats", "a:Unknown-1.0"}},
		{"prepend descending", Policy{Order: TitleDescending, Insertion: PrependEach}, []types.Identifier{"platform:formats", "platform:graphics", "a:Unknown-1.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New("test", scenarioTable(), tt.policy)
			require.NoError(t, err)
			_, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0", "a:Unknown-1.0")
			require.NoError(t, c.Postprocess(coll))
			assert.Equal(t, tt.want, keys(coll))

			front := tt.policy.FrontOrder()
			first, second := coll.At(0).Title(), coll.At(1).Title()
			if front == TitleAscending {
				assert.Less(t, first, second)
			} else {
				assert.Greater(t, first, second)
			}
		})
	}
}

func TestPostprocess_NoFallbackKeepsUnmatchedInPlace(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	_, coll := rootCollection(t, "a:First", "a:Gtk-3.0", "a:Middle", "a:Json-1.0", "a:Last")
	require.NoError(t, c.Postprocess(coll))

	assert.Equal(t, []types.Identifier{
		"platform:formats", "platform:graphics", "a:First", "a:Middle", "a:Last",
	}, keys(coll))
}

func TestPostprocess_FallbackToOther(t *testing.T) {
	table := scenarioTable()
	table.Titles["platform:other"] = "Other"
	c, err := New("test", table, Policy{Fallback: FallbackTo("platform:other")})
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0", "a:Unknown-1.0")
	require.NoError(t, c.Postprocess(coll))

	assert.Equal(t, []types.Identifier{"platform:formats", "platform:graphics", "platform:other"}, keys(coll))
	assert.Equal(t, []types.Identifier{"a:Unknown-1.0"}, childKeys(s, coll.At(2)))
}

func TestPostprocess_Idempotent(t *testing.T) {
	for _, policy := range []Policy{DefaultPolicy(), PlatformPolicy(), GnomePlatformPolicy()} {
		t.Run(policy.String(), func(t *testing.T) {
			table := scenarioTable().Merge(PlatformTable())
			c, err := New("test", table, policy)
			require.NoError(t, err)

			s, coll := rootCollection(t, "a:Gtk-3.0", "gir:Gio-2.0", "a:Json-1.0", "a:Unknown-1.0")
			require.NoError(t, c.Postprocess(coll))
			once := coll.Items()
			sessionSize := s.Len()

			require.NoError(t, c.Postprocess(coll))
			assert.Equal(t, once, coll.Items())
			assert.Equal(t, sessionSize, s.Len())
			assert.Empty(t, coll.DuplicateIDs())
		})
	}
}

func TestPostprocess_Deterministic(t *testing.T) {
	table := PlatformTable()
	ids := []types.Identifier{
		"gir:Gtk-3.0", "gir:Json-1.0", "gir:GLib-2.0", "gir:Atk-1.0", "gir:Soup-2.4",
		"gir:Peas-1.0", "gir:Secret-1", "gir:Gst-1.0", "gir:Unknown-9",
	}

	var runs [][]types.Identifier
	for i := 0; i < 5; i++ {
		c, err := New("gnome", table, GnomePlatformPolicy())
		require.NoError(t, err)
		_, coll := rootCollection(t, ids...)
		require.NoError(t, c.Postprocess(coll))
		runs = append(runs, keys(coll))
	}
	for _, run := range runs[1:] {
		assert.Equal(t, runs[0], run)
	}
}

func TestPostprocess_NestedCollectionsUntouched(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s := tree.NewSession()
	coll := tree.NewCollection(s, types.PathOf("a:Gtk-3.0"))
	require.NoError(t, coll.Commit(context.Background(), tree.NewItem("a:Json-1.0", "Json", types.VariantLeaf)))

	require.NoError(t, c.Postprocess(coll))
	assert.Equal(t, []types.Identifier{"a:Json-1.0"}, keys(coll))
}

func TestPostprocess_PathRoundTripThroughCategory(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0")
	require.NoError(t, c.Postprocess(coll))

	gtk, ok := s.Lookup("a:Gtk-3.0")
	require.True(t, ok)
	path, err := tree.ComputePath(s, gtk)
	require.NoError(t, err)
	assert.Equal(t, "platform:graphics,a:Gtk-3.0", path.String())

	resolved, ok := tree.Resolve(s, path)
	require.True(t, ok)
	assert.Same(t, gtk, resolved[len(resolved)-1])
}

func TestPostprocess_NewItemsJoinExistingCategory(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0")
	require.NoError(t, c.Postprocess(coll))
	require.NoError(t, coll.Commit(context.Background(), tree.NewItem("a:Json-1.0", "Json", types.VariantContainer)))
	table := c.Table()
	table.Mapping["a:Gdk-3.0"] = "platform:graphics"
	require.NoError(t, coll.Commit(context.Background(), tree.NewItem("a:Gdk-3.0", "Gdk", types.VariantContainer)))

	require.NoError(t, c.Postprocess(coll))
	assert.Equal(t, []types.Identifier{"platform:formats", "platform:graphics"}, keys(coll))
	assert.Empty(t, coll.DuplicateIDs())
	assert.Equal(t, []types.Identifier{"a:Gtk-3.0", "a:Gdk-3.0"}, childKeys(s, coll.At(1)))
}

func TestPostprocess_FailureRestoresFlatState(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0", "a:Unknown-1.0")
	// an unrelated node squatting on a category id makes registration fail
	require.NoError(t, s.Register(tree.NewItem("platform:graphics", "Impostor", types.VariantLeaf), ""))
	before := coll.Items()

	err = c.Postprocess(coll)
	assert.ErrorIs(t, err, docerrors.ErrDuplicateIdentity)
	assert.Equal(t, before, coll.Items())
	_, ok := s.Lookup("platform:formats")
	assert.False(t, ok)
	parent, _ := s.Parent("a:Json-1.0")
	assert.Empty(t, parent)
}

func TestPostprocess_FailedReparentRestoresSession(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Json-1.0", "a:Gtk-3.0")
	// a category node parented under one of its own members cannot adopt it
	require.NoError(t, s.Register(tree.NewItem("platform:graphics", "Graphics", types.VariantCategory), "a:Gtk-3.0"))
	before := coll.Items()

	err = c.Postprocess(coll)
	assert.ErrorIs(t, err, docerrors.ErrCyclicParent)
	assert.Equal(t, before, coll.Items())

	parent, ok := s.Parent("a:Json-1.0")
	require.True(t, ok)
	assert.Empty(t, parent, "moved member is back at the root")
	_, ok = s.Lookup("platform:formats")
	assert.False(t, ok, "category registered by the failed pass is dropped")
	_, ok = s.Lookup("platform:graphics")
	assert.True(t, ok, "nodes registered before the pass are kept")
	assert.Empty(t, s.ChildrenOf("platform:formats"))
}

func TestPostprocess_FrozenCollection(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	_, coll := rootCollection(t, "a:Gtk-3.0")
	before := coll.Items()
	coll.Freeze()

	assert.ErrorIs(t, c.Postprocess(coll), docerrors.ErrFrozen)
	assert.Equal(t, before, coll.Items())
}

func TestLoadItem(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)
	s := tree.NewSession()

	first, ok := c.LoadItem(s, "platform:graphics")
	require.True(t, ok)
	assert.Equal(t, "Graphics", first.Title())

	again, ok := c.LoadItem(s, "platform:graphics")
	require.True(t, ok)
	assert.Same(t, first, again, "category nodes are cached per session")

	other, ok := c.LoadItem(tree.NewSession(), "platform:graphics")
	require.True(t, ok)
	assert.NotSame(t, first, other)

	_, ok = c.LoadItem(s, "a:Nothing")
	assert.False(t, ok)

	leaf := tree.NewItem("a:Gtk-3.0", "Gtk", types.VariantLeaf)
	require.NoError(t, s.Register(leaf, ""))
	got, ok := c.LoadItem(s, "a:Gtk-3.0")
	require.True(t, ok)
	assert.Same(t, leaf, got)

	// a pass reuses the node handed out earlier
	coll := tree.NewCollection(s, types.Path{})
	require.NoError(t, coll.Commit(context.Background(), tree.NewItem("a:Gdk", "Gdk", types.VariantLeaf)))
	c.Table().Mapping["a:Gdk"] = "platform:graphics"
	require.NoError(t, c.Postprocess(coll))
	assert.Same(t, first, coll.At(0))
}

func TestNew_Validation(t *testing.T) {
	missingTitle := scenarioTable()
	missingTitle.Mapping["a:Foo"] = "platform:nowhere"

	selfMapped := scenarioTable()
	selfMapped.Mapping["platform:graphics"] = "platform:formats"

	patternHitsCategory := scenarioTable()
	patternHitsCategory.Patterns = []Pattern{{Match: "platform:*", Category: "platform:graphics"}}

	badPattern := scenarioTable()
	badPattern.Patterns = []Pattern{{Match: "a:[", Category: "platform:graphics"}}

	sharedScheme := scenarioTable()
	sharedScheme.Mapping["platform-ish"] = "platform:graphics"
	sharedScheme.Mapping["platform:thing"] = "platform:graphics"

	tests := []struct {
		name   string
		table  *Table
		policy Policy
	}{
		{"nil table", nil, DefaultPolicy()},
		{"category without title", missingTitle, DefaultPolicy()},
		{"category mapped as content", selfMapped, DefaultPolicy()},
		{"pattern matching a category", patternHitsCategory, DefaultPolicy()},
		{"invalid pattern", badPattern, DefaultPolicy()},
		{"content shares category scheme", sharedScheme, DefaultPolicy()},
		{"fallback without title", scenarioTable(), Policy{Fallback: FallbackTo("platform:other")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.table, tt.policy)
			assert.Error(t, err)
		})
	}

	_, err := New("gnome", PlatformTable(), GnomePlatformPolicy())
	assert.NoError(t, err)
}

func TestTable_Patterns(t *testing.T) {
	table := scenarioTable()
	table.Patterns = []Pattern{
		{Match: "a:Gst*-1.0", Category: "platform:graphics"},
		{Match: "a:*", Category: "platform:formats"},
	}

	cat, ok := table.Lookup("a:GstVideo-1.0")
	require.True(t, ok)
	assert.Equal(t, types.Identifier("platform:graphics"), cat)

	cat, ok = table.Lookup("a:Gtk-3.0")
	require.True(t, ok)
	assert.Equal(t, types.Identifier("platform:graphics"), cat, "exact entries win over patterns")

	cat, ok = table.Lookup("a:Anything")
	require.True(t, ok)
	assert.Equal(t, types.Identifier("platform:formats"), cat)

	_, ok = table.Lookup("b:Anything")
	assert.False(t, ok)
}

func TestLoadTable(t *testing.T) {
	content := `
[titles]
"platform:graphics" = "Graphics"
"platform:multimedia" = "Multimedia"

[mapping]
"gir:Gtk-4.0" = "platform:graphics"

[[patterns]]
match = "gir:Gst*-1.0"
category = "platform:multimedia"
`
	path := filepath.Join(t.TempDir(), "categories.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.NoError(t, table.Validate())

	assert.Equal(t, "Graphics", table.Titles["platform:graphics"])
	assert.Equal(t, types.Identifier("platform:graphics"), table.Mapping["gir:Gtk-4.0"])
	require.Len(t, table.Patterns, 1)
	assert.Equal(t, types.Identifier("platform:multimedia"), table.Patterns[0].Category)

	merged := PlatformTable().Merge(table)
	cat, ok := merged.Lookup("gir:Gtk-4.0")
	require.True(t, ok)
	assert.Equal(t, types.Identifier("platform:graphics"), cat)
	assert.Len(t, merged.Categories(), 16)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
	_, err = ParseTable([]byte("[titles"))
	assert.Error(t, err)
}

func TestPolicyParsing(t *testing.T) {
	order, err := ParseOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, TitleDescending, order)
	_, err = ParseOrder("sideways")
	assert.Error(t, err)

	ins, err := ParseInsertion("prepend")
	require.NoError(t, err)
	assert.Equal(t, PrependEach, ins)
	_, err = ParseInsertion("middle")
	assert.Error(t, err)

	_, ok := ParseFallback("none").Category()
	assert.False(t, ok)
	cat, ok := ParseFallback("platform:other").Category()
	assert.True(t, ok)
	assert.Equal(t, OtherCategory, cat)

	assert.Equal(t, TitleAscending, GnomePlatformPolicy().FrontOrder())
	assert.Equal(t, TitleDescending, PlatformPolicy().FrontOrder())
	assert.Equal(t, TitleAscending, DefaultPolicy().FrontOrder())
}

func TestLoadChildren_CategoryMembers(t *testing.T) {
	c, err := New("test", scenarioTable(), DefaultPolicy())
	require.NoError(t, err)

	s, coll := rootCollection(t, "a:Gtk-3.0", "a:Json-1.0")
	require.NoError(t, c.Postprocess(coll))

	members := tree.NewStagingCollection(s, types.PathOf("platform:graphics"))
	require.NoError(t, c.LoadChildren(context.Background(), members.Path(), members))
	assert.Equal(t, []types.Identifier{"a:Gtk-3.0"}, keys(members))

	other := tree.NewStagingCollection(s, types.PathOf("a:Gtk-3.0"))
	require.NoError(t, c.LoadChildren(context.Background(), other.Path(), other))
	assert.Zero(t, other.Len())

	root := tree.NewStagingCollection(s, types.Path{})
	require.NoError(t, c.LoadChildren(context.Background(), root.Path(), root))
	assert.Zero(t, root.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.LoadChildren(ctx, members.Path(), members), docerrors.ErrCancelled)
}
