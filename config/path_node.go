package config

import (
	"fmt"
	"maps"
	"slices"
)

// PathNode is a structural node with uniquely named children.
type PathNode struct {
	base

	children map[string]Node
}

// NewPathNode creates a path node owned by parent. The root of a configuration has a nil parent.
func NewPathNode(cfg *Configuration, parent Node, name string) *PathNode {
	return &PathNode{
		base:     newBase(cfg, parent, name),
		children: make(map[string]Node),
	}
}

// AddChildNode attaches child under its name, replacing any child with the same name.
func (n *PathNode) AddChildNode(child Node) error {
	if child == nil || child.Name() == "" {
		return fmt.Errorf("%w: child without a name added to %s", ErrInvalidNode, PathOf(n))
	}

	common := child.common()
	common.parent = n

	if common.configuration == nil {
		child.UpdateConfiguration(n.configuration)
	}

	n.children[child.Name()] = child
	n.touch()

	return nil
}

// RemoveChildNode detaches the child called name and reports whether it existed.
func (n *PathNode) RemoveChildNode(name string) bool {
	_, ok := n.children[name]
	if !ok {
		return false
	}

	delete(n.children, name)
	n.touch()

	return true
}

// GetChildNode returns the child called name, or nil.
func (n *PathNode) GetChildNode(name string) Node {
	return n.children[name]
}

// Children returns the children ordered by name.
func (n *PathNode) Children() []Node {
	children := make([]Node, 0, len(n.children))

	for _, name := range slices.Sorted(maps.Keys(n.children)) {
		children = append(children, n.children[name])
	}

	return children
}

// Count returns the number of children, reserved key-value children included.
func (n *PathNode) Count() int {
	return len(n.children)
}

// GetAttributes returns the attributes child, or nil.
func (n *PathNode) GetAttributes() *KeyValueNode {
	return n.keyValueChild(n.settings().AttributesNodeName)
}

// GetParameters returns the parameters child, or nil.
func (n *PathNode) GetParameters() *KeyValueNode {
	return n.keyValueChild(n.settings().ParametersNodeName)
}

// GetProperties returns the properties child, or nil.
func (n *PathNode) GetProperties() *KeyValueNode {
	return n.keyValueChild(n.settings().PropertiesNodeName)
}

func (n *PathNode) keyValueChild(name string) *KeyValueNode {
	kv, _ := n.children[name].(*KeyValueNode)

	return kv
}

// Find resolves path relative to this node.
func (n *PathNode) Find(path string) Node {
	return search(n, path)
}

// FindPath resolves path[index:] where path[index] addresses this node. A segment that
// names one of the children instead is handed to that child at the same index.
func (n *PathNode) FindPath(path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]

	switch segment {
	case ParentReference:
		return escapeToParent(n, path, index)
	case RecursiveWildcard:
		return recursiveFind(n, path, index)
	}

	resolved := ResolveName(segment, n.name, n.settings())
	if resolved == nil {
		if segment != n.name {
			return n.delegate(segment, path, index)
		}

		if isLast(path, index) {
			return n
		}

		return n.findChild(path, index+1)
	}

	if resolved.Name != n.name {
		return n.delegate(resolved.Name, path, index)
	}

	return n.findSpecial(resolved, path, index)
}

func (n *PathNode) delegate(name string, path []string, index int) Node {
	child, ok := n.children[name]
	if !ok {
		child, ok = n.resourceNamed(name)
		if !ok {
			return nil
		}
	}

	return child.FindPath(path, index)
}

// resourceNamed finds a resource child by its resource name rather than its node name.
func (n *PathNode) resourceNamed(name string) (Node, bool) {
	for _, child := range n.Children() {
		resource, ok := child.(*ResourceNode)
		if ok && resource.resourceName == name {
			return resource, true
		}
	}

	return nil, false
}

// findSpecial applies an operator whose target is this node.
func (n *PathNode) findSpecial(resolved *ResolvedName, path []string, index int) Node {
	last := isLast(path, index)

	switch resolved.Abbr {
	case AttributesAbbr, ParametersAbbr, PropertiesAbbr:
		kv := n.keyValueChild(resolved.AbbrReplacement)
		if kv == nil {
			return nil
		}

		if resolved.ChildName != "" {
			if !last {
				return nil
			}

			return asNode(kv.lookup(resolved.ChildName))
		}

		if last {
			return kv
		}

		return kv.FindPath(withSegment(path, index, kv.name), index)
	case ListAbbr:
		return nil
	default:
		if last {
			return n
		}

		return n.findChild(path, index+1)
	}
}

// findChild resolves path[index], the segment after this node.
func (n *PathNode) findChild(path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]

	switch segment {
	case ParentReference:
		return escapeToParent(n, path, index)
	case Wildcard:
		return fanOut(n.Children(), path, index)
	case RecursiveWildcard:
		return recursiveFind(n, path, index)
	}

	name := segment

	if resolved := ResolveName(segment, n.name, n.settings()); resolved != nil {
		if resolved.Abbr != "" && resolved.Name == n.name {
			return n.findSpecial(resolved, path, index)
		}

		name = resolved.Name
	}

	return n.delegate(name, path, index)
}

// PostLoad moves the node and its children to Synced.
func (n *PathNode) PostLoad() error {
	err := n.postLoad()
	if err != nil {
		return err
	}

	for _, child := range n.Children() {
		err = child.PostLoad()
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate requires at least one child and validates every child.
func (n *PathNode) Validate() error {
	err := n.validate(n)
	if err != nil {
		return err
	}

	if len(n.children) == 0 {
		return fmt.Errorf("path node %s: %w", PathOf(n), ErrEmptyCollection)
	}

	for _, child := range n.Children() {
		err = child.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateState sets the state of the node and its children.
func (n *PathNode) UpdateState(state State) {
	n.state = state

	for _, child := range n.children {
		child.UpdateState(state)
	}
}

// UpdateConfiguration re-points the node and its children at cfg.
func (n *PathNode) UpdateConfiguration(cfg *Configuration) {
	n.configuration = cfg

	for _, child := range n.children {
		child.UpdateConfiguration(cfg)
	}
}
