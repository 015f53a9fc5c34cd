package document

import (
	"fmt"

	"github.com/0xalexb/hjarta-config/config"
)

// Export renders cfg in the document shape accepted by Build.
func Export(cfg *config.Configuration) (map[string]any, error) {
	root := cfg.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: RootConfigNode", config.ErrPropertyMissing)
	}

	body, err := ExportNode(root)
	if err != nil {
		return nil, err
	}

	configuration := map[string]any{root.Name(): body}
	if cfg.Header != nil {
		configuration[HeaderKey] = exportHeader(cfg.Header)
	}

	return map[string]any{ConfigurationKey: configuration}, nil
}

func exportHeader(header *config.Header) map[string]any {
	fields := map[string]any{
		"id":          header.ID,
		"group":       header.ApplicationGroup,
		"application": header.ApplicationName,
		"name":        header.Name,
		"version":     header.Version,
	}

	if header.Description != "" {
		fields["description"] = header.Description
	}

	if header.CreatedBy != nil {
		fields["createdBy"] = exportModifiedBy(header.CreatedBy)
	}

	if header.UpdatedBy != nil {
		fields["updatedBy"] = exportModifiedBy(header.UpdatedBy)
	}

	return fields
}

func exportModifiedBy(modified *config.ModifiedBy) map[string]any {
	return map[string]any{
		"user":      modified.User,
		"timestamp": config.FormatTimestamp(modified.Timestamp),
	}
}

// ExportNode renders a single node: strings for plain values, maps for path and
// key-value nodes, slices for lists and directive objects for encrypted values,
// includes and resources. A SearchResult renders as the slice of its results.
func ExportNode(n config.Node) (any, error) {
	switch node := n.(type) {
	case *config.ValueNode:
		if node.Encrypted() {
			return map[string]any{TypeKey: TypeEncrypted, ValueKey: node.Value()}, nil
		}

		return node.Value(), nil
	case *config.PathNode:
		fields := make(map[string]any, node.Count())

		for _, child := range node.Children() {
			value, err := ExportNode(child)
			if err != nil {
				return nil, err
			}

			fields[child.Name()] = value
		}

		return fields, nil
	case *config.KeyValueNode:
		fields := make(map[string]any, node.Count())

		for _, key := range node.Keys() {
			value, err := ExportNode(node.GetValue(key))
			if err != nil {
				return nil, err
			}

			fields[key] = value
		}

		return fields, nil
	case *config.ListValueNode:
		return exportAll(node.Values())
	case *config.ElementListNode:
		return exportAll(node.Elements())
	case *config.IncludeNode:
		return map[string]any{TypeKey: TypeInclude, LocationKey: node.Location()}, nil
	case *config.ResourceNode:
		location := ""
		if node.Location() != nil {
			location = node.Location().String()
		}

		return map[string]any{
			TypeKey:         TypeResource,
			KindKey:         node.Kind().String(),
			LocationKey:     location,
			ResourceNameKey: node.ResourceName(),
		}, nil
	case *config.SearchResult:
		return exportAll(node.Results())
	default:
		return nil, fmt.Errorf("%w: %T", config.ErrUnsupportedNode, n)
	}
}

func exportAll[T config.Node](nodes []T) ([]any, error) {
	items := make([]any, 0, len(nodes))

	for _, node := range nodes {
		item, err := ExportNode(node)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}
