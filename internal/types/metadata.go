package types

// Well-known metadata keys shared by providers and views
const (
	// MetaKind marks structural nodes; views lift the children of a
	// KindGroup node into their own sub-lists
	MetaKind  = "kind"
	KindGroup = "group"

	MetaVersion   = "version"
	MetaDoc       = "doc"
	MetaClasses   = "classes"
	MetaFunctions = "functions"
	MetaNamespace = "namespace"
)
