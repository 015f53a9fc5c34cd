package config

import "errors"

// ErrPropertyMissing is returned when a required header or node property is not set.
var ErrPropertyMissing = errors.New("required property missing")

// ErrEmptyCollection is returned when a path, list or key-value node has no children.
var ErrEmptyCollection = errors.New("collection must not be empty")

// ErrInvalidState is returned when a node or configuration is in a state that forbids the operation.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidNode is returned when a node is malformed or cannot be attached to the tree.
var ErrInvalidNode = errors.New("invalid node")

// ErrInvalidVersion is returned when the header version is not a semantic version.
var ErrInvalidVersion = errors.New("invalid version")

// ErrResourceMissing is returned when a local resource does not exist.
var ErrResourceMissing = errors.New("resource does not exist")

// ErrIncludeCycle is returned when a configuration includes itself, directly or transitively.
var ErrIncludeCycle = errors.New("include cycle")

// ErrEmptyData is returned when the fetched configuration data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrUnsupportedNode is returned when an operation does not handle a node type.
var ErrUnsupportedNode = errors.New("unsupported node type")

// ErrNoDecrypter is returned when an encrypted value is read without a Decrypter.
var ErrNoDecrypter = errors.New("encrypted value requires a decrypter")
