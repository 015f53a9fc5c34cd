package config

import (
	"fmt"
	"slices"
	"strconv"
)

// listNode holds the ordered elements shared by ListValueNode and ElementListNode.
// Methods that need the outer node take it as self.
type listNode[T Node] struct {
	base

	values []T
}

// Count returns the number of elements.
func (l *listNode[T]) Count() int {
	return len(l.values)
}

// GetValue returns the element at index, or the zero value when index is out of range.
func (l *listNode[T]) GetValue(index int) T {
	value, _ := l.get(index)

	return value
}

// Remove deletes the element at index and reports whether it existed.
func (l *listNode[T]) Remove(index int) bool {
	if index < 0 || index >= len(l.values) {
		return false
	}

	l.values = slices.Delete(l.values, index, index+1)
	l.touch()

	return true
}

func (l *listNode[T]) get(index int) (T, bool) {
	if index < 0 || index >= len(l.values) {
		var zero T

		return zero, false
	}

	return l.values[index], true
}

func (l *listNode[T]) add(self Node, value T) error {
	if value.Name() == "" {
		return fmt.Errorf("%w: element without a name added to %s", ErrInvalidNode, PathOf(self))
	}

	common := value.common()
	common.parent = self

	if common.configuration == nil {
		value.UpdateConfiguration(l.configuration)
	}

	l.values = append(l.values, value)
	l.touch()

	return nil
}

func (l *listNode[T]) nodes() []Node {
	nodes := make([]Node, 0, len(l.values))

	for _, value := range l.values {
		nodes = append(nodes, value)
	}

	return nodes
}

func (l *listNode[T]) find(self Node, path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]

	switch segment {
	case ParentReference:
		return escapeToParent(self, path, index)
	case RecursiveWildcard:
		return recursiveFind(self, path, index)
	}

	resolved := ResolveName(segment, l.name, l.settings())
	if resolved == nil {
		if segment != l.name {
			return nil
		}

		if isLast(path, index) {
			return self
		}

		return l.findChild(self, path, index+1)
	}

	if resolved.Name != l.name {
		return nil
	}

	switch resolved.Abbr {
	case ListAbbr:
		position, err := strconv.Atoi(resolved.ChildName)
		if err != nil {
			return nil
		}

		element, ok := l.get(position)
		if !ok {
			return nil
		}

		if isLast(path, index) {
			return element
		}

		return element.FindPath(insertSegment(path, index+1, element.Name()), index+1)
	case "":
		if isLast(path, index) {
			return self
		}

		return l.findChild(self, path, index+1)
	default:
		return nil
	}
}

// findChild resolves path[index] against the elements: a wildcard fans out, an index
// operator selects one element and a plain name selects every element with that name.
func (l *listNode[T]) findChild(self Node, path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]

	switch segment {
	case ParentReference:
		return escapeToParent(self, path, index)
	case Wildcard:
		return fanOut(l.nodes(), path, index)
	case RecursiveWildcard:
		return recursiveFind(self, path, index)
	}

	if resolved := ResolveName(segment, l.name, l.settings()); resolved != nil && resolved.Name == l.name {
		return l.find(self, path, index)
	}

	var matches []Node

	for _, value := range l.values {
		if value.Name() == segment {
			matches = append(matches, value)
		}
	}

	return fanOut(matches, path, index)
}

func (l *listNode[T]) postLoadAll() error {
	err := l.postLoad()
	if err != nil {
		return err
	}

	for _, value := range l.values {
		err = value.PostLoad()
		if err != nil {
			return err
		}
	}

	return nil
}

func (l *listNode[T]) validateAll(self Node) error {
	err := l.validate(self)
	if err != nil {
		return err
	}

	if len(l.values) == 0 {
		return fmt.Errorf("list node %s: %w", PathOf(self), ErrEmptyCollection)
	}

	for _, value := range l.values {
		err = value.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

func (l *listNode[T]) updateState(state State) {
	l.state = state

	for _, value := range l.values {
		value.UpdateState(state)
	}
}

func (l *listNode[T]) updateConfiguration(cfg *Configuration) {
	l.configuration = cfg

	for _, value := range l.values {
		value.UpdateConfiguration(cfg)
	}
}

// ListValueNode is an ordered list of value nodes.
type ListValueNode struct {
	listNode[*ValueNode]
}

// NewListValueNode creates an empty value list owned by parent.
func NewListValueNode(cfg *Configuration, parent Node, name string) *ListValueNode {
	return &ListValueNode{
		listNode: listNode[*ValueNode]{base: newBase(cfg, parent, name), values: nil},
	}
}

// Add appends value.
func (l *ListValueNode) Add(value *ValueNode) error {
	if value == nil {
		return fmt.Errorf("%w: nil value added to %s", ErrInvalidNode, PathOf(l))
	}

	return l.add(l, value)
}

// Values returns a copy of the elements.
func (l *ListValueNode) Values() []*ValueNode {
	return slices.Clone(l.values)
}

// Strings returns the stored values in order.
func (l *ListValueNode) Strings() []string {
	result := make([]string, 0, len(l.values))

	for _, value := range l.values {
		result = append(result, value.value)
	}

	return result
}

// Find resolves path relative to this node.
func (l *ListValueNode) Find(path string) Node {
	return search(l, path)
}

// FindPath resolves path[index:] where path[index] is the list name or an index operator on it.
func (l *ListValueNode) FindPath(path []string, index int) Node {
	return l.find(l, path, index)
}

// PostLoad moves the list and its elements to Synced.
func (l *ListValueNode) PostLoad() error {
	return l.postLoadAll()
}

// Validate requires at least one element.
func (l *ListValueNode) Validate() error {
	return l.validateAll(l)
}

// UpdateState sets the state of the list and its elements.
func (l *ListValueNode) UpdateState(state State) {
	l.updateState(state)
}

// UpdateConfiguration re-points the list and its elements at cfg.
func (l *ListValueNode) UpdateConfiguration(cfg *Configuration) {
	l.updateConfiguration(cfg)
}

// ElementListNode is an ordered list of path nodes.
type ElementListNode struct {
	listNode[*PathNode]
}

// NewElementListNode creates an empty element list owned by parent.
func NewElementListNode(cfg *Configuration, parent Node, name string) *ElementListNode {
	return &ElementListNode{
		listNode: listNode[*PathNode]{base: newBase(cfg, parent, name), values: nil},
	}
}

// Add appends element.
func (l *ElementListNode) Add(element *PathNode) error {
	if element == nil {
		return fmt.Errorf("%w: nil element added to %s", ErrInvalidNode, PathOf(l))
	}

	return l.add(l, element)
}

// Elements returns a copy of the elements.
func (l *ElementListNode) Elements() []*PathNode {
	return slices.Clone(l.values)
}

// Find resolves path relative to this node.
func (l *ElementListNode) Find(path string) Node {
	return search(l, path)
}

// FindPath resolves path[index:] where path[index] is the list name or an index operator on it.
func (l *ElementListNode) FindPath(path []string, index int) Node {
	return l.find(l, path, index)
}

// PostLoad moves the list and its elements to Synced.
func (l *ElementListNode) PostLoad() error {
	return l.postLoadAll()
}

// Validate requires at least one element.
func (l *ElementListNode) Validate() error {
	return l.validateAll(l)
}

// UpdateState sets the state of the list and its elements.
func (l *ElementListNode) UpdateState(state State) {
	l.updateState(state)
}

// UpdateConfiguration re-points the list and its elements at cfg.
func (l *ElementListNode) UpdateConfiguration(cfg *Configuration) {
	l.updateConfiguration(cfg)
}
