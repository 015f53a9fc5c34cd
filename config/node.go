package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Node is a configuration tree node. The set of implementations is closed: ValueNode,
// PathNode, KeyValueNode, ListValueNode, ElementListNode, ResourceNode, IncludeNode and
// SearchResult.
type Node interface {
	// Name returns the node name; it is never empty for tree nodes.
	Name() string
	// State returns the lifecycle state.
	State() State
	// Parent returns the owning node, or nil for a root.
	Parent() Node
	// Configuration returns the configuration the node belongs to.
	Configuration() *Configuration
	// Find resolves a search path relative to this node. A leading "/" resolves from
	// the configuration root. Returns nil when nothing matches.
	Find(path string) Node
	// FindPath resolves pre-split segments where path[index] addresses this node.
	FindPath(path []string, index int) Node
	// PostLoad moves the node and its children to the Synced state.
	PostLoad() error
	// Validate checks the structural invariants of the node and its children.
	Validate() error
	// UpdateState sets the state of the node and its children.
	UpdateState(state State)
	// UpdateConfiguration re-points the node and its children at cfg.
	UpdateConfiguration(cfg *Configuration)
	// MarkDeleted flags the node as deleted without removing it from its parent.
	MarkDeleted()

	common() *base
}

type base struct {
	name          string
	state         State
	parent        Node
	configuration *Configuration
}

func newBase(cfg *Configuration, parent Node, name string) base {
	return base{
		name:          name,
		state:         StateLoading,
		parent:        parent,
		configuration: cfg,
	}
}

// Name returns the node name.
func (b *base) Name() string {
	return b.name
}

// State returns the lifecycle state.
func (b *base) State() State {
	return b.state
}

// Parent returns the owning node.
func (b *base) Parent() Node {
	return b.parent
}

// Configuration returns the owning configuration.
func (b *base) Configuration() *Configuration {
	return b.configuration
}

// MarkDeleted flags the node as deleted. The parent still holds it until
// RemoveChildNode (or the list/key-value Remove) is called.
func (b *base) MarkDeleted() {
	b.state = StateDeleted
}

func (b *base) common() *base {
	return b
}

func (b *base) settings() *Settings {
	if b.configuration == nil || b.configuration.Settings == nil {
		return DefaultSettings()
	}

	return b.configuration.Settings
}

// touch marks a loaded node as locally modified. Nodes still being built keep their state.
func (b *base) touch() {
	if b.state == StateSynced {
		b.state = StateUpdated
	}
}

// postLoad marks the node synced. A soft-deleted node stays deleted until it is removed.
func (b *base) postLoad() error {
	switch b.state {
	case StateError:
		return fmt.Errorf("%w: node %q is in error state", ErrInvalidState, b.name)
	case StateDeleted:
		return nil
	default:
		b.state = StateSynced
	}

	return nil
}

func (b *base) validate(self Node) error {
	if b.name == "" {
		return fmt.Errorf("%w: node at %q has no name", ErrInvalidNode, PathOf(self.Parent()))
	}

	return nil
}

// asNode converts a possibly nil concrete pointer into a Node without producing a typed nil.
func asNode[T Node](value T, ok bool) Node {
	if !ok {
		return nil
	}

	return value
}

// parentOf returns the parent of n, crossing from an included root to the include's parent.
func parentOf(n Node) Node {
	parent := n.Parent()
	if parent != nil {
		return parent
	}

	cfg := n.Configuration()
	if cfg != nil && cfg.includer != nil && cfg.root != nil && Node(cfg.root) == n {
		return cfg.includer.Parent()
	}

	return nil
}

// escapeToParent replaces path[index] ("..") with the parent's name and continues the search there.
func escapeToParent(n Node, path []string, index int) Node {
	parent := parentOf(n)
	if parent == nil {
		return nil
	}

	return parent.FindPath(withSegment(path, index, parent.Name()), index)
}

func withSegment(path []string, index int, segment string) []string {
	updated := slices.Clone(path)
	updated[index] = segment

	return updated
}

func insertSegment(path []string, index int, segment string) []string {
	return slices.Insert(slices.Clone(path), index, segment)
}

func isLast(path []string, index int) bool {
	return index == len(path)-1
}

// fanOut applies the remaining path to every candidate, each addressed by its own name at index.
// Every candidate with a match contributes exactly one entry.
func fanOut(candidates []Node, path []string, index int) Node {
	var results SearchResult

	for _, candidate := range candidates {
		results.addEntry(candidate.FindPath(withSegment(path, index, candidate.Name()), index))
	}

	return results.collapse()
}

// recursiveFind handles a "**" segment at path[index] whose scope is n: the segment after it
// is matched against n's children, and every child is searched again with "**" applied.
func recursiveFind(n Node, path []string, index int) Node {
	var results SearchResult

	if isLast(path, index) {
		Walk(n, func(descendant Node) bool {
			if descendant != n {
				results.add(descendant)
			}

			return true
		})

		return results.collapse()
	}

	next := index + 1

	switch node := n.(type) {
	case *PathNode:
		results.add(node.findChild(path, next))
	case *ListValueNode:
		results.add(node.findChild(node, path, next))
	case *ElementListNode:
		results.add(node.findChild(node, path, next))
	case *KeyValueNode:
		if isLast(path, next) {
			results.add(asNode(node.lookup(path[next])))
		}
	case *IncludeNode:
		if root := node.Root(); root != nil {
			return recursiveFind(root, path, index)
		}

		return nil
	case *SearchResult:
		for _, result := range node.results {
			results.add(recursiveFind(result, path, index))
		}

		return results.collapse()
	case *ValueNode, *ResourceNode:
		return nil
	}

	for _, child := range childrenOf(n) {
		results.add(recursiveFind(child, path, index))
	}

	return results.collapse()
}

// childrenOf lists the direct children of n. Included configurations contribute their root.
func childrenOf(n Node) []Node {
	switch node := n.(type) {
	case *PathNode:
		return node.Children()
	case *KeyValueNode:
		return node.nodes()
	case *ListValueNode:
		return node.nodes()
	case *ElementListNode:
		return node.nodes()
	case *IncludeNode:
		if root := node.Root(); root != nil {
			return []Node{root}
		}

		return nil
	case *SearchResult:
		return node.Results()
	case *ValueNode, *ResourceNode:
		return nil
	default:
		return nil
	}
}

// Walk calls fn for n and every node below it, depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range childrenOf(n) {
		Walk(child, fn)
	}
}

// PathOf returns the absolute "/"-separated path of n. An included root is reported under
// the name of the include node that splices it in, and list elements by index ("list[2]"),
// so the result always resolves back to n through Configuration.Find.
func PathOf(n Node) string {
	var names []string

	for current := n; current != nil; {
		name := current.Name()
		cfg := current.Configuration()

		if cfg != nil && cfg.includer != nil && cfg.root != nil && Node(cfg.root) == current {
			name = cfg.includer.Name()
			current = cfg.includer
		}

		if index := listPosition(current); index >= 0 {
			current = current.Parent()
			name = current.Name() + "[" + strconv.Itoa(index) + "]"
		}

		names = append(names, name)
		current = current.Parent()
	}

	slices.Reverse(names)

	return PathSeparator + strings.Join(names, PathSeparator)
}

// listPosition returns the index of n in its parent list, or -1 when the parent is not a list.
func listPosition(n Node) int {
	switch parent := n.Parent().(type) {
	case *ListValueNode:
		return indexOf(parent.values, n)
	case *ElementListNode:
		return indexOf(parent.values, n)
	default:
		return -1
	}
}

func indexOf[T Node](values []T, n Node) int {
	return slices.IndexFunc(values, func(value T) bool {
		return Node(value) == n
	})
}

// search implements the string form of Find for every node type.
func search(n Node, path string) Node {
	path = strings.TrimSpace(path)

	if strings.HasPrefix(path, PathSeparator) {
		if cfg := n.Configuration(); cfg != nil {
			return cfg.Find(path)
		}

		path = strings.TrimLeft(path, PathSeparator)
	}

	segments := n.Configuration().segments(path)
	if len(segments) == 0 {
		return n
	}

	if segments[0] == CurrentReference {
		segments[0] = n.Name()
	} else if !addressesSelf(n, segments[0]) {
		segments = slices.Insert(segments, 0, n.Name())
	}

	return n.FindPath(dropCurrent(segments), 0)
}

// addressesSelf reports whether the first segment of a relative path names n itself.
func addressesSelf(n Node, segment string) bool {
	if segment == n.Name() {
		return true
	}

	if kv, ok := n.(*KeyValueNode); ok && strings.HasPrefix(segment, kv.Abbreviation()) {
		return true
	}

	resolved := ResolveName(segment, n.Name(), n.common().settings())

	return resolved != nil && resolved.Abbr != "" && resolved.Name == n.Name()
}

func dropCurrent(segments []string) []string {
	return slices.DeleteFunc(segments, func(segment string) bool {
		return segment == CurrentReference
	})
}
