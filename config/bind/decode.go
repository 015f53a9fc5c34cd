package bind

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/spf13/cast"
)

func scalar[T, V any](convert func(any) (V, error), set func(*T, V)) DecodeFunc[T] {
	return func(target *T, node config.Node, decrypter config.Decrypter) error {
		text, err := Text(node, decrypter)
		if err != nil {
			return err
		}

		value, err := convert(text)
		if err != nil {
			return fmt.Errorf("converting %q: %w", text, err)
		}

		set(target, value)

		return nil
	}
}

// decimal wraps convert so zero-padded numbers such as "010" or "-08" read as base 10
// instead of octal. Prefixed forms like "0x1F" are left to convert.
func decimal[V any](convert func(any) (V, error)) func(any) (V, error) {
	return func(value any) (V, error) {
		text, ok := value.(string)
		if !ok {
			return convert(value)
		}

		return convert(trimLeadingZeros(strings.TrimSpace(text)))
	}
}

func trimLeadingZeros(text string) string {
	sign, digits := "", text
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}

	if len(digits) < 2 || digits[0] != '0' || strings.Trim(digits, "0123456789") != "" {
		return text
	}

	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}

	return sign + trimmed
}

// String decodes a value node as text.
func String[T any](set func(*T, string)) DecodeFunc[T] {
	return scalar(cast.ToStringE, set)
}

// Int decodes a value node as an int.
func Int[T any](set func(*T, int)) DecodeFunc[T] {
	return scalar(decimal(cast.ToIntE), set)
}

// Int64 decodes a value node as an int64.
func Int64[T any](set func(*T, int64)) DecodeFunc[T] {
	return scalar(decimal(cast.ToInt64E), set)
}

// Float decodes a value node as a float64.
func Float[T any](set func(*T, float64)) DecodeFunc[T] {
	return scalar(cast.ToFloat64E, set)
}

// Bool decodes a value node as a bool.
func Bool[T any](set func(*T, bool)) DecodeFunc[T] {
	return scalar(cast.ToBoolE, set)
}

// Duration decodes a value node such as "1m30s" or a count of nanoseconds.
func Duration[T any](set func(*T, time.Duration)) DecodeFunc[T] {
	return scalar(cast.ToDurationE, set)
}

// StringSlice decodes a value list, a search result of value nodes or a single value node.
func StringSlice[T any](set func(*T, []string)) DecodeFunc[T] {
	return func(target *T, node config.Node, decrypter config.Decrypter) error {
		var values []*config.ValueNode

		switch n := node.(type) {
		case *config.ListValueNode:
			values = n.Values()
		case *config.ValueNode:
			values = []*config.ValueNode{n}
		case *config.SearchResult:
			for _, result := range n.Flatten() {
				value, ok := result.(*config.ValueNode)
				if !ok {
					return unsupported(result)
				}

				values = append(values, value)
			}
		default:
			return unsupported(node)
		}

		result := make([]string, 0, len(values))

		for _, value := range values {
			text, err := value.Decrypt(decrypter)
			if err != nil {
				return fmt.Errorf("decrypting %s: %w", config.PathOf(value), err)
			}

			result = append(result, text)
		}

		set(target, result)

		return nil
	}
}

// StringMap decodes a key-value node, or the value children of a path node.
func StringMap[T any](set func(*T, map[string]string)) DecodeFunc[T] {
	return func(target *T, node config.Node, decrypter config.Decrypter) error {
		var values []*config.ValueNode

		switch n := node.(type) {
		case *config.KeyValueNode:
			for _, key := range n.Keys() {
				values = append(values, n.GetValue(key))
			}
		case *config.PathNode:
			for _, child := range n.Children() {
				if value, ok := child.(*config.ValueNode); ok {
					values = append(values, value)
				}
			}
		default:
			return unsupported(node)
		}

		result := make(map[string]string, len(values))

		for _, value := range values {
			text, err := value.Decrypt(decrypter)
			if err != nil {
				return fmt.Errorf("decrypting %s: %w", config.PathOf(value), err)
			}

			result[value.Name()] = text
		}

		set(target, result)

		return nil
	}
}

// Node hands the matched node to set unchanged, for types the helpers do not cover.
func Node[T any](set func(*T, config.Node) error) DecodeFunc[T] {
	return func(target *T, node config.Node, _ config.Decrypter) error {
		return set(target, node)
	}
}

// Text returns the plain text of a value node, decrypting it when needed.
func Text(node config.Node, decrypter config.Decrypter) (string, error) {
	value, ok := node.(*config.ValueNode)
	if !ok {
		return "", unsupported(node)
	}

	text, err := value.Decrypt(decrypter)
	if err != nil {
		return "", fmt.Errorf("decrypting %s: %w", config.PathOf(value), err)
	}

	return text, nil
}

func unsupported(node config.Node) error {
	return fmt.Errorf("%w: %T at %s", config.ErrUnsupportedNode, node, config.PathOf(node))
}
