package config

import "fmt"

// IncludeLoader loads the configuration referenced by an include. Parsers call it while
// building the tree; location is the raw value written in the including document.
type IncludeLoader func(location string) (*Configuration, error)

// IncludeNode splices a separately loaded configuration into the tree. Searches pass
// through it to the included root as if that root were the include itself.
type IncludeNode struct {
	base

	location string
	included *Configuration
}

// NewIncludeNode wraps included under name. The included configuration keeps its own
// settings and header.
func NewIncludeNode(cfg *Configuration, parent Node, name, location string, included *Configuration) *IncludeNode {
	node := &IncludeNode{
		base:     newBase(cfg, parent, name),
		location: location,
		included: included,
	}

	if included != nil {
		included.includer = node
	}

	return node
}

// Location returns where the included configuration was loaded from.
func (i *IncludeNode) Location() string {
	return i.location
}

// Included returns the embedded configuration.
func (i *IncludeNode) Included() *Configuration {
	return i.included
}

// Root returns the root of the embedded configuration, or nil.
func (i *IncludeNode) Root() *PathNode {
	if i.included == nil {
		return nil
	}

	return i.included.root
}

// Find resolves path relative to this node.
func (i *IncludeNode) Find(path string) Node {
	return search(i, path)
}

// FindPath hands the search to the included root, renaming this node's segment to the root name.
func (i *IncludeNode) FindPath(path []string, index int) Node {
	root := i.Root()
	if root == nil || index >= len(path) {
		return nil
	}

	segment := path[index]
	if segment == ParentReference {
		return escapeToParent(i, path, index)
	}

	if segment == i.name {
		path = withSegment(path, index, root.name)
	}

	return root.FindPath(path, index)
}

// PostLoad moves the include and the embedded tree to Synced.
func (i *IncludeNode) PostLoad() error {
	err := i.postLoad()
	if err != nil {
		return err
	}

	if root := i.Root(); root != nil {
		return root.PostLoad()
	}

	return nil
}

// Validate requires a loaded configuration with a root.
func (i *IncludeNode) Validate() error {
	err := i.validate(i)
	if err != nil {
		return err
	}

	if i.included == nil {
		return fmt.Errorf("include %s: %w: Configuration", PathOf(i), ErrPropertyMissing)
	}

	root := i.Root()
	if root == nil {
		return fmt.Errorf("include %s: %w: RootConfigNode", PathOf(i), ErrPropertyMissing)
	}

	return root.Validate()
}

// UpdateState sets the state of the include and the embedded tree.
func (i *IncludeNode) UpdateState(state State) {
	i.state = state

	if root := i.Root(); root != nil {
		root.UpdateState(state)
	}
}

// UpdateConfiguration re-points the include node only; the embedded tree stays with its own configuration.
func (i *IncludeNode) UpdateConfiguration(cfg *Configuration) {
	i.configuration = cfg
}
