package display

import (
	"context"

	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Node is one rendered item
type Node struct {
	ID       types.Identifier  `json:"id"`
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Variant  types.Variant     `json:"variant"`
	Member   *types.MemberKind `json:"member,omitempty"`
	Depth    int               `json:"depth"`
	Children []*Node           `json:"children,omitempty"`
}

// Tree is a rendered subtree below Path
type Tree struct {
	Path       types.Path `json:"path"`
	Title      string     `json:"title"`
	TotalNodes int        `json:"total_nodes"`
	MaxDepth   int        `json:"max_depth"`
	Nodes      []*Node    `json:"nodes"`
}

// Populator loads the children of a path; the library implements it
type Populator interface {
	Populate(ctx context.Context, path types.Path) (*tree.Collection, error)
}

// RootTitle labels the empty path
const RootTitle = "(root)"

// BuildTree expands path through p down to maxDepth levels. A maxDepth of
// zero or less expands a single level.
func BuildTree(ctx context.Context, p Populator, path types.Path, maxDepth int) (*Tree, error) {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	t := &Tree{Path: path, Title: RootTitle}
	if last, ok := path.Last(); ok {
		t.Title = last.Title
	}

	nodes, err := expand(ctx, p, path, 1, maxDepth, t)
	if err != nil {
		return nil, err
	}
	t.Nodes = nodes
	return t, nil
}

func expand(ctx context.Context, p Populator, path types.Path, depth, maxDepth int, t *Tree) ([]*Node, error) {
	coll, err := p.Populate(ctx, path)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, 0, coll.Len())
	for _, it := range coll.Items() {
		n := NodeOf(it, depth)
		t.TotalNodes++
		if depth > t.MaxDepth {
			t.MaxDepth = depth
		}
		if it.HasChildren() && depth < maxDepth {
			children, err := expand(ctx, p, path.Push(it.PathElement()), depth+1, maxDepth, t)
			if err != nil {
				return nil, err
			}
			n.Children = children
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// NodeOf renders one item without children
func NodeOf(it *tree.Item, depth int) *Node {
	n := &Node{
		ID:       it.Key(),
		Title:    it.Title(),
		Subtitle: it.Subtitle(),
		Icon:     it.IconName(),
		Variant:  it.Variant(),
		Depth:    depth,
	}
	if it.Variant() == types.VariantMember {
		kind := it.MemberKind()
		n.Member = &kind
	}
	return n
}
