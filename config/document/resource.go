package document

import (
	"fmt"
	"net/url"

	"github.com/0xalexb/hjarta-config/config"
)

// BuildResource creates a resource node from the raw directive fields. It is shared with
// the XML parser, whose attributes carry the same fields.
func BuildResource(
	cfg *config.Configuration,
	parent config.Node,
	name, kind, location, resourceName string,
) (*config.ResourceNode, error) {
	resourceKind, err := config.ParseResourceKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", config.PathOf(parent), name, err)
	}

	uri, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: invalid location %q: %w", config.PathOf(parent), name, location, err)
	}

	if resourceName == "" {
		resourceName = name
	}

	return config.NewResourceNode(cfg, parent, name, resourceKind, uri, resourceName), nil
}
