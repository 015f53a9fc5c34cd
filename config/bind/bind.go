package bind

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/0xalexb/hjarta-config/config"
)

var (
	// ErrRequired is returned when a required field path matches nothing.
	ErrRequired = errors.New("required field not found")
	// ErrDecode is returned when a node cannot be decoded into the field type.
	ErrDecode = errors.New("decoding field")
)

// Finder resolves search paths. *config.Configuration and every config.Node implement it.
type Finder interface {
	Find(path string) config.Node
}

// DecodeFunc stores the value of node in target.
type DecodeFunc[T any] func(target *T, node config.Node, decrypter config.Decrypter) error

// Field maps one search path onto part of T.
type Field[T any] struct {
	Path     string
	Required bool
	Decode   DecodeFunc[T]
}

// Binder applies a mapping table to targets of type T.
type Binder[T any] struct {
	fields    []Field[T]
	decrypter config.Decrypter
}

// NewBinder returns a binder for fields, applied in order.
func NewBinder[T any](fields ...Field[T]) *Binder[T] {
	return &Binder[T]{
		fields:    fields,
		decrypter: nil,
	}
}

// WithDecrypter sets the decrypter used for encrypted value nodes.
func (b *Binder[T]) WithDecrypter(decrypter config.Decrypter) *Binder[T] {
	b.decrypter = decrypter

	return b
}

// Bind resolves every field against finder and decodes it into target. Optional fields
// that match nothing leave target unchanged.
func (b *Binder[T]) Bind(finder Finder, target *T) error {
	for _, field := range b.fields {
		node := finder.Find(field.Path)
		if node == nil {
			if field.Required {
				return fmt.Errorf("%w: %s", ErrRequired, field.Path)
			}

			continue
		}

		err := field.Decode(target, node, b.decrypter)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrDecode, field.Path, err)
		}
	}

	return nil
}

// Provider returns a function that binds a new T from a configuration, then sets
// defaults and validates it when T implements config.Defaulter or config.Validator.
func Provider[T any](binder *Binder[T]) func(*config.Configuration) (*T, error) {
	return func(cfg *config.Configuration) (*T, error) {
		target := new(T)

		err := binder.Bind(cfg, target)
		if err != nil {
			return nil, fmt.Errorf("binding error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(config.Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("type", fmt.Sprintf("%T", target)))
			}
		}

		targetValidatable, isValidatable := any(target).(config.Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}
