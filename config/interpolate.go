package config

import "regexp"

var propertyReference = regexp.MustCompile(`\$\{([^{}]+)\}`)

// interpolate replaces ${name} in every plain value below root with the nearest ancestor
// property called name. Unknown names stay as written. It returns the number of values changed.
func interpolate(root Node) int {
	replaced := 0

	Walk(root, func(n Node) bool {
		value, ok := n.(*ValueNode)
		if !ok || value.encrypted || !propertyReference.MatchString(value.value) {
			return true
		}

		expanded := propertyReference.ReplaceAllStringFunc(value.value, func(reference string) string {
			name := propertyReference.FindStringSubmatch(reference)[1]

			property, found := LookupProperty(value, name)
			if !found || property.value == value.value {
				return reference
			}

			return property.value
		})

		if expanded != value.value {
			value.value = expanded
			replaced++
		}

		return true
	})

	return replaced
}

// LookupProperty returns the property called name on the nearest ancestor of n that
// defines it, crossing include boundaries into the including tree.
func LookupProperty(n Node, name string) (*ValueNode, bool) {
	for current := parentOf(n); current != nil; current = parentOf(current) {
		path, ok := current.(*PathNode)
		if !ok {
			continue
		}

		properties := path.GetProperties()
		if properties == nil {
			continue
		}

		property, found := properties.lookup(name)
		if found {
			return property, true
		}
	}

	return nil, false
}
