package catalog

import (
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// canonical returns the session's instance of id, building a new one only
// when the session has none
func canonical(s *tree.Session, id types.Identifier, build func() *tree.Item) *tree.Item {
	if s != nil {
		if it, ok := s.Lookup(id); ok {
			return it
		}
	}
	return build()
}

func (p *Provider) namespaceItem(s *tree.Session, ns *Namespace) *tree.Item {
	return canonical(s, ns.ID(), func() *tree.Item {
		return tree.NewItem(ns.ID(), ns.Name, types.VariantContainer,
			tree.WithScheme(Scheme),
			tree.WithSubtitle(ns.ShortName()),
			tree.WithIcon(iconNamespace),
			tree.WithChildren(func(s *tree.Session) []*tree.Item {
				return p.namespaceChildren(s, ns)
			}),
		)
	})
}

func (p *Provider) namespaceChildren(s *tree.Session, ns *Namespace) []*tree.Item {
	var out []*tree.Item
	id := ns.ID()
	if len(ns.Classes) > 0 {
		out = append(out, p.groupItem(s, id, groupClasses, func(s *tree.Session) []*tree.Item {
			items := make([]*tree.Item, len(ns.Classes))
			for i := range ns.Classes {
				items[i] = p.classItem(s, ns, &ns.Classes[i])
			}
			return items
		}))
	}
	for _, g := range []group{groupEnums, groupFlags, groupFunctions} {
		entries := namespaceEntries(ns, g)
		if len(entries) == 0 {
			continue
		}
		g := g
		out = append(out, p.groupItem(s, id, g, func(s *tree.Session) []*tree.Item {
			items := make([]*tree.Item, len(entries))
			for i := range entries {
				items[i] = p.entryItem(s, ns, g, &entries[i])
			}
			return items
		}))
	}
	return out
}

func namespaceEntries(ns *Namespace, g group) []Member {
	switch g {
	case groupEnums:
		return ns.Enums
	case groupFlags:
		return ns.Flags
	case groupFunctions:
		return ns.Functions
	}
	return nil
}

func classMembers(cls *Class, g group) []Member {
	switch g {
	case groupProperties:
		return cls.Properties
	case groupMethods:
		return cls.Methods
	case groupSignals:
		return cls.Signals
	}
	return nil
}

func (p *Provider) groupItem(s *tree.Session, parent types.Identifier, g group, children tree.ChildrenFunc) *tree.Item {
	id := groupID(parent, g)
	return canonical(s, id, func() *tree.Item {
		return tree.NewItem(id, groupTitles[g], types.VariantContainer,
			tree.WithScheme(Scheme),
			tree.WithMetadata(map[string]string{types.MetaKind: types.KindGroup}),
			tree.WithChildren(children),
		)
	})
}

func (p *Provider) classItem(s *tree.Session, ns *Namespace, cls *Class) *tree.Item {
	id := classID(ns, cls)
	return canonical(s, id, func() *tree.Item {
		return tree.NewItem(id, cls.Name, types.VariantContainer,
			tree.WithScheme(Scheme),
			tree.WithSubtitle(ns.Name+"."+cls.Name),
			tree.WithIcon(iconClass),
			tree.WithChildren(func(s *tree.Session) []*tree.Item {
				var out []*tree.Item
				for _, g := range []group{groupProperties, groupMethods, groupSignals} {
					members := classMembers(cls, g)
					if len(members) == 0 {
						continue
					}
					g := g
					out = append(out, p.groupItem(s, id, g, func(s *tree.Session) []*tree.Item {
						items := make([]*tree.Item, len(members))
						for i := range members {
							items[i] = p.memberItem(s, id, g, &members[i])
						}
						return items
					}))
				}
				return out
			}),
		)
	})
}

func (p *Provider) memberItem(s *tree.Session, class types.Identifier, g group, m *Member) *tree.Item {
	id := memberID(class, g, m)
	return canonical(s, id, func() *tree.Item {
		kind, icon := types.MemberMethod, iconFunction
		switch g {
		case groupProperties:
			kind, icon = types.MemberProperty, iconProperty
		case groupSignals:
			kind, icon = types.MemberSignal, iconSignal
		}
		return tree.NewItem(id, m.Name, types.VariantMember,
			tree.WithScheme(Scheme),
			tree.WithMemberKind(kind),
			tree.WithIcon(icon),
		)
	})
}

func (p *Provider) entryItem(s *tree.Session, ns *Namespace, g group, m *Member) *tree.Item {
	id := entryID(ns, m)
	return canonical(s, id, func() *tree.Item {
		if g == groupFunctions {
			return tree.NewItem(id, m.Name, types.VariantMember,
				tree.WithScheme(Scheme),
				tree.WithMemberKind(types.MemberMethod),
				tree.WithIcon(iconFunction),
			)
		}
		return tree.NewItem(id, m.Name, types.VariantLeaf,
			tree.WithScheme(Scheme),
			tree.WithSubtitle(ns.Name+"."+m.Name),
			tree.WithIcon(iconEnum),
		)
	})
}

// resolve finds id below its namespace by walking the producers. The
// session's instance wins whenever it has one.
func (p *Provider) resolve(s *tree.Session, idx *index, id types.Identifier) (*tree.Item, bool) {
	if s != nil {
		if it, ok := s.Lookup(id); ok {
			return it, true
		}
	}
	for i := range idx.catalog.Namespaces {
		ns := &idx.catalog.Namespaces[i]
		if !owns(ns, id) {
			continue
		}
		if it, ok := find(s, p.namespaceItem(s, ns), id); ok {
			return it, true
		}
	}
	return nil, false
}

func find(s *tree.Session, root *tree.Item, id types.Identifier) (*tree.Item, bool) {
	if root.Key() == id {
		return root, true
	}
	for _, child := range root.Children(s) {
		if it, ok := find(s, child, id); ok {
			return it, true
		}
	}
	return nil, false
}

// ancestry returns the keys from root down to the parent of id
func ancestry(root *tree.Item, id types.Identifier) ([]types.Identifier, bool) {
	if root.Key() == id {
		return []types.Identifier{}, true
	}
	for _, child := range root.Children(nil) {
		if chain, ok := ancestry(child, id); ok {
			return append([]types.Identifier{root.Key()}, chain...), true
		}
	}
	return nil, false
}

// buildIndex flattens a catalog into search texts and a documentation map
func buildIndex(cat *Catalog) *index {
	idx := &index{catalog: cat, docs: make(map[types.Identifier]string)}
	add := func(id types.Identifier, ns *Namespace, text, doc string) {
		idx.entries = append(idx.entries, entry{id: id, ns: ns})
		idx.texts = append(idx.texts, text)
		if doc != "" {
			idx.docs[id] = doc
		}
	}

	for i := range cat.Namespaces {
		ns := &cat.Namespaces[i]
		add(ns.ID(), ns, ns.Name, ns.Doc)
		for j := range ns.Classes {
			cls := &ns.Classes[j]
			cid := classID(ns, cls)
			add(cid, ns, ns.Name+"."+cls.Name, cls.Doc)
			for _, g := range []group{groupProperties, groupMethods, groupSignals} {
				members := classMembers(cls, g)
				for k := range members {
					m := &members[k]
					add(memberID(cid, g, m), ns, ns.Name+"."+cls.Name+"."+m.Name, m.Doc)
				}
			}
		}
		for _, g := range []group{groupEnums, groupFlags, groupFunctions} {
			entries := namespaceEntries(ns, g)
			for k := range entries {
				m := &entries[k]
				add(entryID(ns, m), ns, ns.Name+"."+m.Name, m.Doc)
			}
		}
	}
	return idx
}
