package config

import (
	"errors"
	"fmt"
)

// Default names of the reserved key-value children of a PathNode.
const (
	DefaultAttributesNodeName = "@"
	DefaultParametersNodeName = "parameters"
	DefaultPropertiesNodeName = "properties"
)

// DefaultPathCacheSize is the number of tokenized search paths cached per Configuration.
const DefaultPathCacheSize = 256

// ErrDuplicateNodeName is returned when two reserved node names collide.
var ErrDuplicateNodeName = errors.New("reserved node names must be distinct")

// Settings controls the naming of reserved nodes and a few load-time behaviours.
// Settings must not be modified once a Configuration has been created with them.
type Settings struct {
	// AttributesNodeName is the child name used for XML attributes.
	AttributesNodeName string
	// ParametersNodeName is the child name used for parameters.
	ParametersNodeName string
	// PropertiesNodeName is the child name used for properties.
	PropertiesNodeName string
	// DisableInterpolation turns off ${name} substitution in values during PostLoad.
	DisableInterpolation bool
	// PathCacheSize bounds the tokenized path cache.
	PathCacheSize int
}

// DefaultSettings returns Settings with every field set to its default.
func DefaultSettings() *Settings {
	settings := &Settings{} //nolint:exhaustruct // filled by SetDefaults
	settings.SetDefaults()

	return settings
}

// SetDefaults fills unset fields and reports whether anything changed.
func (s *Settings) SetDefaults() bool {
	changed := false

	if s.AttributesNodeName == "" {
		s.AttributesNodeName = DefaultAttributesNodeName
		changed = true
	}

	if s.ParametersNodeName == "" {
		s.ParametersNodeName = DefaultParametersNodeName
		changed = true
	}

	if s.PropertiesNodeName == "" {
		s.PropertiesNodeName = DefaultPropertiesNodeName
		changed = true
	}

	if s.PathCacheSize <= 0 {
		s.PathCacheSize = DefaultPathCacheSize
		changed = true
	}

	return changed
}

// Validate checks that the reserved names are set and distinct.
func (s *Settings) Validate() error {
	names := []struct {
		field string
		value string
	}{
		{"AttributesNodeName", s.AttributesNodeName},
		{"ParametersNodeName", s.ParametersNodeName},
		{"PropertiesNodeName", s.PropertiesNodeName},
	}

	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if name.value == "" {
			return fmt.Errorf("%w: %s", ErrPropertyMissing, name.field)
		}

		if seen[name.value] {
			return fmt.Errorf("%w: %q", ErrDuplicateNodeName, name.value)
		}

		seen[name.value] = true
	}

	return nil
}
