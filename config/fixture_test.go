package config

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// newFixture builds:
//
//	root
//	  configuration
//	    node_1 (@timeout=30 @mode=fast, properties host=example.org)
//	      VALUE_LIST (8 values)
//	      node_2
//	        name = two
//	        node_3
//	          leaf = deep
//	      url = http://${host}/api
//	    ELEMENT_LIST (3 elements with id = 0..2)
//	  a
//	    b
//	      c = C
//	      d = D
func newFixture(t *testing.T) *Configuration {
	t.Helper()

	cfg := New(nil)
	cfg.Header = NewHeader("group", "app", "test", "1.0.0", "tester")

	root := NewPathNode(cfg, nil, "root")
	cfg.SetRoot(root)

	configuration := addPath(t, root, "configuration")

	node1 := addPath(t, configuration, "node_1")
	attributes := NewAttributesNode(cfg, node1)
	attributes.Add("timeout", "30")
	attributes.Add("mode", "fast")
	require.NoError(t, node1.AddChildNode(attributes))

	properties := NewPropertiesNode(cfg, node1)
	properties.Add("host", "example.org")
	require.NoError(t, node1.AddChildNode(properties))

	values := NewListValueNode(cfg, node1, "VALUE_LIST")
	for i := range 8 {
		require.NoError(t, values.Add(NewValueNode(cfg, values, "value", "v"+strconv.Itoa(i))))
	}

	require.NoError(t, node1.AddChildNode(values))
	require.NoError(t, node1.AddChildNode(NewValueNode(cfg, node1, "url", "http://${host}/api")))

	node2 := addPath(t, node1, "node_2")
	require.NoError(t, node2.AddChildNode(NewValueNode(cfg, node2, "name", "two")))

	node3 := addPath(t, node2, "node_3")
	require.NoError(t, node3.AddChildNode(NewValueNode(cfg, node3, "leaf", "deep")))

	elements := NewElementListNode(cfg, configuration, "ELEMENT_LIST")
	for i := range 3 {
		element := NewPathNode(cfg, elements, "element")
		require.NoError(t, element.AddChildNode(NewValueNode(cfg, element, "id", strconv.Itoa(i))))
		require.NoError(t, elements.Add(element))
	}

	require.NoError(t, configuration.AddChildNode(elements))

	b := addPath(t, addPath(t, root, "a"), "b")
	require.NoError(t, b.AddChildNode(NewValueNode(cfg, b, "c", "C")))
	require.NoError(t, b.AddChildNode(NewValueNode(cfg, b, "d", "D")))

	return cfg
}

func addPath(t *testing.T, parent *PathNode, name string) *PathNode {
	t.Helper()

	child := NewPathNode(parent.Configuration(), parent, name)
	require.NoError(t, parent.AddChildNode(child))

	return child
}

func valueOf(t *testing.T, n Node) string {
	t.Helper()

	value, ok := n.(*ValueNode)
	require.Truef(t, ok, "expected *ValueNode, got %T", n)

	return value.Value()
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	location, err := url.Parse(raw)
	require.NoError(t, err)

	return location
}
