package config

// Decrypter turns the stored text of an encrypted ValueNode into plain text.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// ValueNode is a leaf holding a string value.
type ValueNode struct {
	base

	value     string
	encrypted bool
}

// NewValueNode creates a value node owned by parent.
func NewValueNode(cfg *Configuration, parent Node, name, value string) *ValueNode {
	return &ValueNode{
		base:      newBase(cfg, parent, name),
		value:     value,
		encrypted: false,
	}
}

// Value returns the stored value. Encrypted values are returned as stored.
func (v *ValueNode) Value() string {
	return v.value
}

// SetValue replaces the value and marks a loaded node as updated.
func (v *ValueNode) SetValue(value string) {
	v.value = value
	v.touch()
}

// Encrypted reports whether the stored value is ciphertext.
func (v *ValueNode) Encrypted() bool {
	return v.encrypted
}

// SetEncrypted flags the stored value as ciphertext.
func (v *ValueNode) SetEncrypted(encrypted bool) {
	v.encrypted = encrypted
}

// Decrypt returns the plain value, using decrypter when the value is encrypted.
func (v *ValueNode) Decrypt(decrypter Decrypter) (string, error) {
	if !v.encrypted {
		return v.value, nil
	}

	if decrypter == nil {
		return "", ErrNoDecrypter
	}

	return decrypter.Decrypt(v.value) //nolint:wrapcheck // decrypter errors are returned as is
}

// Find resolves path relative to this node.
func (v *ValueNode) Find(path string) Node {
	return search(v, path)
}

// FindPath matches only when path[index] is the last segment and names this node.
// A following ".." steps up to the parent.
func (v *ValueNode) FindPath(path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]
	if segment == ParentReference {
		return escapeToParent(v, path, index)
	}

	if segment != v.name {
		return nil
	}

	if isLast(path, index) {
		return v
	}

	if path[index+1] == ParentReference {
		return escapeToParent(v, path, index+1)
	}

	return nil
}

// PostLoad moves the node to Synced.
func (v *ValueNode) PostLoad() error {
	return v.postLoad()
}

// Validate checks the node name.
func (v *ValueNode) Validate() error {
	return v.validate(v)
}

// UpdateState sets the node state.
func (v *ValueNode) UpdateState(state State) {
	v.state = state
}

// UpdateConfiguration sets the owning configuration.
func (v *ValueNode) UpdateConfiguration(cfg *Configuration) {
	v.configuration = cfg
}
