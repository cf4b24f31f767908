package catalog

import (
	"strings"

	"github.com/standardbeagle/docnav/internal/types"
)

// group names a structural child of a namespace or class
type group string

const (
	groupClasses    group = "classes"
	groupEnums      group = "enums"
	groupFlags      group = "flags"
	groupFunctions  group = "functions"
	groupProperties group = "properties"
	groupMethods    group = "methods"
	groupSignals    group = "signals"
)

var groupTitles = map[group]string{
	groupClasses:    "Classes",
	groupEnums:      "Enumerations",
	groupFlags:      "Flags",
	groupFunctions:  "Global Functions",
	groupProperties: "Properties",
	groupMethods:    "Methods",
	groupSignals:    "Signals",
}

const (
	iconNamespace = "lang-namespace-symbolic"
	iconClass     = "lang-class-symbolic"
	iconEnum      = "lang-enum-symbolic"
	iconFunction  = "lang-function-symbolic"
	iconProperty  = "lang-property-symbolic"
	iconSignal    = "lang-signal-symbolic"
)

func groupID(parent types.Identifier, g group) types.Identifier {
	return parent + "/" + types.Identifier(g)
}

func classID(ns *Namespace, cls *Class) types.Identifier {
	return ns.ID() + "." + types.Identifier(cls.Name)
}

// entryID names a namespace-level entry: enum, flags or function
func entryID(ns *Namespace, m *Member) types.Identifier {
	return ns.ID() + "." + types.Identifier(m.Name)
}

// memberID follows the C documentation convention: Class:prop,
// Class::signal and Class.method
func memberID(class types.Identifier, g group, m *Member) types.Identifier {
	switch g {
	case groupProperties:
		return class + ":" + types.Identifier(m.Name)
	case groupSignals:
		return class + "::" + types.Identifier(m.Name)
	default:
		return class + "." + types.Identifier(m.Name)
	}
}

// owns reports whether id belongs to namespace ns
func owns(ns *Namespace, id types.Identifier) bool {
	nsID := string(ns.ID())
	s := string(id)
	if s == nsID {
		return true
	}
	if !strings.HasPrefix(s, nsID) {
		return false
	}
	switch s[len(nsID)] {
	case '.', '/':
		return true
	}
	return false
}
