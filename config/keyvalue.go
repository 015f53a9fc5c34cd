package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// KeyValueKind selects the role of a KeyValueNode.
type KeyValueKind int

// Key-value node kinds.
const (
	KindAttributes KeyValueKind = iota + 1
	KindParameters
	KindProperties
)

// Abbreviation returns the search path operator of the kind.
func (k KeyValueKind) Abbreviation() string {
	switch k {
	case KindAttributes:
		return AttributesAbbr
	case KindParameters:
		return ParametersAbbr
	case KindProperties:
		return PropertiesAbbr
	default:
		return ""
	}
}

func (k KeyValueKind) String() string {
	switch k {
	case KindAttributes:
		return "attributes"
	case KindParameters:
		return "parameters"
	case KindProperties:
		return "properties"
	default:
		return "unknown"
	}
}

// KeyValueNode maps keys to value nodes. It backs the reserved attributes, parameters and
// properties children of a PathNode.
type KeyValueNode struct {
	base

	kind   KeyValueKind
	values map[string]*ValueNode
}

func newKeyValueNode(cfg *Configuration, parent Node, kind KeyValueKind, name string) *KeyValueNode {
	return &KeyValueNode{
		base:   newBase(cfg, parent, name),
		kind:   kind,
		values: make(map[string]*ValueNode),
	}
}

// NewAttributesNode creates an attributes node named after Settings.AttributesNodeName.
func NewAttributesNode(cfg *Configuration, parent Node) *KeyValueNode {
	return newKeyValueNode(cfg, parent, KindAttributes, cfg.settings().AttributesNodeName)
}

// NewParametersNode creates a parameters node named after Settings.ParametersNodeName.
func NewParametersNode(cfg *Configuration, parent Node) *KeyValueNode {
	return newKeyValueNode(cfg, parent, KindParameters, cfg.settings().ParametersNodeName)
}

// NewPropertiesNode creates a properties node named after Settings.PropertiesNodeName.
func NewPropertiesNode(cfg *Configuration, parent Node) *KeyValueNode {
	return newKeyValueNode(cfg, parent, KindProperties, cfg.settings().PropertiesNodeName)
}

// Kind returns the role of the node.
func (kv *KeyValueNode) Kind() KeyValueKind {
	return kv.kind
}

// Abbreviation returns the search path operator addressing this node.
func (kv *KeyValueNode) Abbreviation() string {
	return kv.kind.Abbreviation()
}

// Add stores value under key, replacing any previous entry, and returns the new value node.
func (kv *KeyValueNode) Add(key, value string) *ValueNode {
	node := NewValueNode(kv.configuration, kv, key, value)
	kv.values[key] = node
	kv.touch()

	return node
}

// AddValue stores an existing value node under its name.
func (kv *KeyValueNode) AddValue(node *ValueNode) error {
	if node == nil || node.name == "" {
		return fmt.Errorf("%w: value without a name added to %s", ErrInvalidNode, kv.kind)
	}

	node.parent = kv
	node.configuration = kv.configuration
	kv.values[node.name] = node
	kv.touch()

	return nil
}

// Remove deletes key and reports whether it was present.
func (kv *KeyValueNode) Remove(key string) bool {
	_, ok := kv.values[key]
	if !ok {
		return false
	}

	delete(kv.values, key)
	kv.touch()

	return true
}

// GetValue returns the value node stored under key, or nil.
func (kv *KeyValueNode) GetValue(key string) *ValueNode {
	return kv.values[key]
}

func (kv *KeyValueNode) lookup(key string) (*ValueNode, bool) {
	node, ok := kv.values[key]

	return node, ok
}

// Keys returns the keys in sorted order.
func (kv *KeyValueNode) Keys() []string {
	return slices.Sorted(maps.Keys(kv.values))
}

// Count returns the number of entries.
func (kv *KeyValueNode) Count() int {
	return len(kv.values)
}

// Map returns the stored values keyed by name.
func (kv *KeyValueNode) Map() map[string]string {
	result := make(map[string]string, len(kv.values))

	for key, node := range kv.values {
		result[key] = node.value
	}

	return result
}

func (kv *KeyValueNode) nodes() []Node {
	nodes := make([]Node, 0, len(kv.values))

	for _, key := range kv.Keys() {
		nodes = append(nodes, kv.values[key])
	}

	return nodes
}

// Find resolves path relative to this node.
func (kv *KeyValueNode) Find(path string) Node {
	return search(kv, path)
}

// FindPath accepts the abbreviation ("@") or the node name for the node itself,
// "<abbr><key>" for one entry, and "<name>/<key>" or "<name>/*" below it.
func (kv *KeyValueNode) FindPath(path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]
	abbr := kv.Abbreviation()

	switch {
	case segment == ParentReference:
		return escapeToParent(kv, path, index)
	case segment == abbr || segment == kv.name:
		return kv.findChild(path, index)
	case strings.HasPrefix(segment, abbr) && isLast(path, index):
		return asNode(kv.lookup(strings.TrimPrefix(segment, abbr)))
	}

	if resolved := ResolveName(segment, kv.name, kv.settings()); resolved != nil &&
		resolved.Abbr == abbr && resolved.Name == kv.name && isLast(path, index) {
		if resolved.ChildName == "" {
			return kv
		}

		return asNode(kv.lookup(resolved.ChildName))
	}

	return nil
}

func (kv *KeyValueNode) findChild(path []string, index int) Node {
	if isLast(path, index) {
		return kv
	}

	next := index + 1

	switch path[next] {
	case ParentReference:
		return escapeToParent(kv, path, next)
	case Wildcard:
		return fanOut(kv.nodes(), path, next)
	case RecursiveWildcard:
		return recursiveFind(kv, path, next)
	}

	if !isLast(path, next) {
		return nil
	}

	return asNode(kv.lookup(path[next]))
}

// PostLoad moves the node and its values to Synced.
func (kv *KeyValueNode) PostLoad() error {
	err := kv.postLoad()
	if err != nil {
		return err
	}

	for _, key := range kv.Keys() {
		err = kv.values[key].PostLoad()
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate requires at least one entry.
func (kv *KeyValueNode) Validate() error {
	err := kv.validate(kv)
	if err != nil {
		return err
	}

	if len(kv.values) == 0 {
		return fmt.Errorf("%s %s: %w", kv.kind, PathOf(kv), ErrEmptyCollection)
	}

	for _, key := range kv.Keys() {
		err = kv.values[key].Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateState sets the state of the node and its values.
func (kv *KeyValueNode) UpdateState(state State) {
	kv.state = state

	for _, node := range kv.values {
		node.UpdateState(state)
	}
}

// UpdateConfiguration re-points the node and its values at cfg.
func (kv *KeyValueNode) UpdateConfiguration(cfg *Configuration) {
	kv.configuration = cfg

	for _, node := range kv.values {
		node.UpdateConfiguration(cfg)
	}
}
