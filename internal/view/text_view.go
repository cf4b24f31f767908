package view

import (
	"io"
	"strings"
	"sync"

	"github.com/standardbeagle/docnav/internal/display"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Group titles of the text view
const (
	GroupClasses    = "Classes"
	GroupProperties = "Properties"
	GroupMethods    = "Methods"
)

// Group is one titled sub-list of the text view
type Group struct {
	Title string
	Items []*tree.Item
}

// TextView shows the children of the current item split into classes,
// properties and methods. Children of structural group nodes are listed
// in place of the group.
type TextView struct {
	out       io.Writer
	formatter *display.TreeFormatter

	mu         sync.Mutex
	surface    Surface
	item       *tree.Item
	containers []*tree.Item
	properties []*tree.Item
	methods    []*tree.Item
}

// NewTextView renders to out on every change; out may be nil
func NewTextView(out io.Writer, options display.FormatterOptions) *TextView {
	return &TextView{out: out, formatter: display.NewTreeFormatter(options)}
}

// OnAttach implements View
func (v *TextView) OnAttach(s Surface) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.surface = s
}

// OnDetach implements View
func (v *TextView) OnDetach(Surface) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.surface = nil
	v.clearLocked()
}

func (v *TextView) clearLocked() {
	v.item = nil
	v.containers, v.properties, v.methods = nil, nil, nil
}

// OnCurrentItemChanged implements View
func (v *TextView) OnCurrentItemChanged(item *tree.Item) {
	v.mu.Lock()
	v.clearLocked()
	v.item = item
	if item != nil && v.surface != nil {
		s := v.surface.Library().Session()
		for _, child := range item.Children(s) {
			if kind, _ := child.Metadata(types.MetaKind); kind == types.KindGroup {
				for _, grandchild := range child.Children(s) {
					v.addLocked(grandchild)
				}
				continue
			}
			v.addLocked(child)
		}
	}
	out := v.out
	rendered := v.renderLocked()
	v.mu.Unlock()

	if out != nil {
		_, _ = io.WriteString(out, rendered)
	}
}

func (v *TextView) addLocked(it *tree.Item) {
	switch it.Variant() {
	case types.VariantContainer, types.VariantCategory, types.VariantLeaf:
		v.containers = append(v.containers, it)
	case types.VariantMember:
		switch it.MemberKind() {
		case types.MemberProperty:
			v.properties = append(v.properties, it)
		case types.MemberMethod, types.MemberSignal, types.MemberOther:
			v.methods = append(v.methods, it)
		}
	}
}

// Item returns the item the view shows
func (v *TextView) Item() *tree.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.item
}

// Groups returns the non-empty sub-lists in display order
func (v *TextView) Groups() []Group {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.groupsLocked()
}

func (v *TextView) groupsLocked() []Group {
	var groups []Group
	for _, g := range []Group{
		{GroupClasses, v.containers},
		{GroupProperties, v.properties},
		{GroupMethods, v.methods},
	} {
		if len(g.Items) > 0 {
			groups = append(groups, Group{Title: g.Title, Items: append([]*tree.Item(nil), g.Items...)})
		}
	}
	return groups
}

// Render returns the current text
func (v *TextView) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderLocked()
}

func (v *TextView) renderLocked() string {
	if v.item == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(v.item.Title())
	if sub := v.item.Subtitle(); sub != "" && sub != v.item.Title() {
		sb.WriteString(" (" + sub + ")")
	}
	sb.WriteString("\n")
	for _, g := range v.groupsLocked() {
		nodes := make([]*display.Node, len(g.Items))
		for i, it := range g.Items {
			nodes[i] = display.NodeOf(it, 1)
		}
		sb.WriteString(v.formatter.FormatNodes(g.Title, nodes))
	}
	return sb.String()
}
