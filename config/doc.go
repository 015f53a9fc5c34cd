// Package config provides the hierarchical configuration tree and its search path engine.
//
// A Configuration owns a header, a Settings value and a root PathNode. Parsers in
// config/parser/... build the tree through the node constructors (NewPathNode,
// NewValueNode, NewAttributesNode, ...), after which Load validates it and moves every
// node to the Synced state.
//
// # Node types
//
//   - ValueNode: leaf holding a string, optionally encrypted
//   - PathNode: named children, plus reserved attributes/parameters/properties children
//   - KeyValueNode: attributes (@), parameters (#) or properties ($)
//   - ListValueNode, ElementListNode: ordered lists of values or path nodes
//   - ResourceNode: reference to an external file, directory or zip archive
//   - IncludeNode: a separately loaded Configuration spliced into the tree
//   - SearchResult: aggregate returned when a wildcard matches more than one node
//
// # Search paths
//
// Segments are separated by "/" or ".". Operators:
//
//	*            every child of the current node
//	**           any depth below the current node
//	..           the parent of the current node
//	/path        absolute path, resolved from the configuration root
//	@ / @key     attributes node / one attribute ("node@key" targets a named child)
//	# / #key     parameters node / one parameter
//	$ / $key     properties node / one property
//	list%2       element 2 of the list named "list"
//	list[2]      same as list%2
//
// The characters @ # $ % . / [ ] are reserved and must not appear in node names.
//
// Example:
//
//	cfg, err := config.Load(xmlparser.NewParser(), fetcher)
//	if err != nil {
//	    return err
//	}
//	values := cfg.Find("root/configuration/node_1/VALUE_LIST")
//	timeout := cfg.Find("root/configuration/node_1@timeout")
package config
