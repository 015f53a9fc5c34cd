package document

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/spf13/cast"
)

// Reserved keys of the document shape.
const (
	ConfigurationKey = "configuration"
	HeaderKey        = "header"
	TypeKey          = "_type"
	ValueKey         = "value"
	LocationKey      = "location"
	KindKey          = "kind"
	ResourceNameKey  = "resourceName"
)

// Values of the TypeKey directive.
const (
	TypeEncrypted = "encrypted"
	TypeInclude   = "include"
	TypeResource  = "resource"
	TypeList      = "list"
)

// Names given to list items, which have no name of their own in generic documents.
const (
	ValueItemName   = "value"
	ElementItemName = "element"
)

// ErrInvalidDocument is returned when a document does not have the configuration shape.
var ErrInvalidDocument = errors.New("invalid configuration document")

// ErrNoIncludeLoader is returned when a document contains an include but no loader was supplied.
var ErrNoIncludeLoader = errors.New("document contains an include but no include loader is set")

type builder struct {
	cfg    *config.Configuration
	loader config.IncludeLoader
}

// Build fills cfg with the header and tree described by doc. Include directives are
// resolved with loader, which may be nil when the document has none.
func Build(doc any, cfg *config.Configuration, loader config.IncludeLoader) error {
	top, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: top level is %T, expected an object", ErrInvalidDocument, doc)
	}

	body, ok := top[ConfigurationKey].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: missing %q object", ErrInvalidDocument, ConfigurationKey)
	}

	if raw, found := body[HeaderKey]; found {
		header, err := buildHeader(raw)
		if err != nil {
			return err
		}

		cfg.Header = header
	}

	roots := slices.DeleteFunc(slices.Sorted(maps.Keys(body)), func(key string) bool {
		return key == HeaderKey
	})
	if len(roots) != 1 {
		return fmt.Errorf("%w: expected exactly one root node, found %d", ErrInvalidDocument, len(roots))
	}

	fields, ok := body[roots[0]].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: root %q must be an object", ErrInvalidDocument, roots[0])
	}

	b := &builder{cfg: cfg, loader: loader}
	root := config.NewPathNode(cfg, nil, roots[0])
	cfg.SetRoot(root)

	return b.fill(root, fields)
}

func buildHeader(raw any) (*config.Header, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: header must be an object", ErrInvalidDocument)
	}

	header := &config.Header{
		ID:               cast.ToString(fields["id"]),
		ApplicationGroup: cast.ToString(fields["group"]),
		ApplicationName:  cast.ToString(fields["application"]),
		Name:             cast.ToString(fields["name"]),
		Version:          cast.ToString(fields["version"]),
		Description:      cast.ToString(fields["description"]),
		CreatedBy:        nil,
		UpdatedBy:        nil,
	}

	var err error

	header.CreatedBy, err = buildModifiedBy(fields["createdBy"])
	if err != nil {
		return nil, fmt.Errorf("createdBy: %w", err)
	}

	header.UpdatedBy, err = buildModifiedBy(fields["updatedBy"])
	if err != nil {
		return nil, fmt.Errorf("updatedBy: %w", err)
	}

	return header, nil
}

func buildModifiedBy(raw any) (*config.ModifiedBy, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent audit record is reported by Header.Validate
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: audit record must be an object", ErrInvalidDocument)
	}

	modified := &config.ModifiedBy{User: cast.ToString(fields["user"])} //nolint:exhaustruct // timestamp below

	switch raw := fields["timestamp"].(type) {
	case nil:
	case time.Time:
		modified.Timestamp = raw
	default:
		timestamp, err := config.ParseTimestamp(cast.ToString(raw))
		if err != nil {
			return nil, err //nolint:wrapcheck // already describes the value
		}

		modified.Timestamp = timestamp
	}

	return modified, nil
}

// fill adds one child to parent per entry of fields.
func (b *builder) fill(parent *config.PathNode, fields map[string]any) error {
	settings := b.cfg.Settings

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		var (
			child config.Node
			err   error
		)

		switch key {
		case settings.AttributesNodeName:
			child, err = b.keyValue(config.NewAttributesNode(b.cfg, parent), fields[key])
		case settings.ParametersNodeName:
			child, err = b.keyValue(config.NewParametersNode(b.cfg, parent), fields[key])
		case settings.PropertiesNodeName:
			child, err = b.keyValue(config.NewPropertiesNode(b.cfg, parent), fields[key])
		default:
			child, err = b.node(parent, key, fields[key])
		}

		if err != nil {
			return err
		}

		err = parent.AddChildNode(child)
		if err != nil {
			return fmt.Errorf("adding %q: %w", key, err)
		}
	}

	return nil
}

func (b *builder) keyValue(kv *config.KeyValueNode, raw any) (config.Node, error) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s must be an object", ErrInvalidDocument, kv.Kind(), config.PathOf(kv.Parent()))
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		value, err := b.value(kv, key, fields[key])
		if err != nil {
			return nil, err
		}

		err = kv.AddValue(value)
		if err != nil {
			return nil, fmt.Errorf("adding %q: %w", key, err)
		}
	}

	return kv, nil
}

// node builds the child called name from a decoded value.
func (b *builder) node(parent config.Node, name string, raw any) (config.Node, error) {
	switch value := raw.(type) {
	case map[string]any:
		return b.object(parent, name, value)
	case []any:
		return b.list(parent, name, value)
	default:
		return b.value(parent, name, raw)
	}
}

func (b *builder) object(parent config.Node, name string, fields map[string]any) (config.Node, error) {
	directive, ok := fields[TypeKey]
	if !ok {
		return b.path(parent, name, fields)
	}

	switch cast.ToString(directive) {
	case TypeEncrypted:
		value, err := b.value(parent, name, fields[ValueKey])
		if err != nil {
			return nil, err
		}

		value.SetEncrypted(true)

		return value, nil
	case TypeInclude:
		return b.include(parent, name, cast.ToString(fields[LocationKey]))
	case TypeResource:
		return BuildResource(b.cfg, parent, name,
			cast.ToString(fields[KindKey]), cast.ToString(fields[LocationKey]), cast.ToString(fields[ResourceNameKey]))
	default:
		return nil, fmt.Errorf("%w: unknown %s %q at %s/%s", ErrInvalidDocument, TypeKey, directive, config.PathOf(parent), name)
	}
}

func (b *builder) path(parent config.Node, name string, fields map[string]any) (*config.PathNode, error) {
	node := config.NewPathNode(b.cfg, parent, name)

	err := b.fill(node, fields)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (b *builder) value(parent config.Node, name string, raw any) (*config.ValueNode, error) {
	text, err := scalar(raw)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", config.PathOf(parent), name, err)
	}

	return config.NewValueNode(b.cfg, parent, name, text), nil
}

func (b *builder) list(parent config.Node, name string, items []any) (config.Node, error) {
	if len(items) > 0 && isObject(items[0]) {
		return b.elementList(parent, name, items)
	}

	list := config.NewListValueNode(b.cfg, parent, name)

	for _, item := range items {
		value, err := b.listValue(list, item)
		if err != nil {
			return nil, err
		}

		err = list.Add(value)
		if err != nil {
			return nil, err //nolint:wrapcheck // names the list already
		}
	}

	return list, nil
}

// listValue builds one item of a value list; encrypted directives are the only objects allowed.
func (b *builder) listValue(list *config.ListValueNode, item any) (*config.ValueNode, error) {
	fields, ok := item.(map[string]any)
	if !ok || cast.ToString(fields[TypeKey]) != TypeEncrypted {
		return b.value(list, ValueItemName, item)
	}

	value, err := b.value(list, ValueItemName, fields[ValueKey])
	if err != nil {
		return nil, err
	}

	value.SetEncrypted(true)

	return value, nil
}

// isObject reports whether item is an object without a directive.
func isObject(item any) bool {
	fields, ok := item.(map[string]any)
	if !ok {
		return false
	}

	_, directive := fields[TypeKey]

	return !directive
}

func (b *builder) elementList(parent config.Node, name string, items []any) (config.Node, error) {
	list := config.NewElementListNode(b.cfg, parent, name)

	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok || !isObject(item) {
			return nil, fmt.Errorf("%w: item %d of %s/%s mixes objects and scalars",
				ErrInvalidDocument, i, config.PathOf(parent), name)
		}

		element, err := b.path(list, ElementItemName, fields)
		if err != nil {
			return nil, err
		}

		err = list.Add(element)
		if err != nil {
			return nil, err //nolint:wrapcheck // names the list already
		}
	}

	return list, nil
}

func (b *builder) include(parent config.Node, name, location string) (config.Node, error) {
	if b.loader == nil {
		return nil, fmt.Errorf("%s/%s: %w", config.PathOf(parent), name, ErrNoIncludeLoader)
	}

	included, err := b.loader(location)
	if err != nil {
		return nil, fmt.Errorf("including %q at %s/%s: %w", location, config.PathOf(parent), name, err)
	}

	return config.NewIncludeNode(b.cfg, parent, name, location, included), nil
}

func scalar(raw any) (string, error) {
	switch value := raw.(type) {
	case nil:
		return "", nil
	case time.Time:
		return config.FormatTimestamp(value), nil
	case map[string]any, []any:
		return "", fmt.Errorf("%w: expected a scalar, got %T", ErrInvalidDocument, raw)
	}

	text, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return text, nil
}
