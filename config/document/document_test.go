package document

import (
	"errors"
	"testing"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() map[string]any {
	return map[string]any{
		"configuration": map[string]any{
			"header": map[string]any{
				"id":          "3f1c2a",
				"group":       "billing",
				"application": "invoicer",
				"name":        "production",
				"version":     "1.4.0",
				"createdBy":   map[string]any{"user": "alice", "timestamp": "2024-01-02T03:04:05Z"},
				"updatedBy":   map[string]any{"user": "bob", "timestamp": int64(1704164645000)},
			},
			"root": map[string]any{
				"@":       map[string]any{"id": "main"},
				"timeout": 30,
				"enabled": true,
				"hosts":   []any{"a.example.org", "b.example.org"},
				"workers": []any{
					map[string]any{"name": "first", "threads": 2},
					map[string]any{"name": "second", "threads": 4},
				},
				"properties": map[string]any{"env": "prod"},
				"password":   map[string]any{"_type": "encrypted", "value": "c2VjcmV0"},
				"bundle": map[string]any{
					"_type":        "resource",
					"kind":         "zip",
					"location":     "https://example.org/b.zip",
					"resourceName": "b.zip",
				},
				"database": map[string]any{"url": "postgres://${env}-db"},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cfg := config.New(nil)
	require.NoError(t, Build(sampleDocument(), cfg, nil))
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.PostLoad())

	assert.Equal(t, "billing", cfg.Header.ApplicationGroup)
	assert.Equal(t, "bob", cfg.Header.UpdatedBy.User)
	assert.True(t, cfg.Header.CreatedBy.Timestamp.Equal(cfg.Header.UpdatedBy.Timestamp))

	tests := []struct {
		path     string
		expected string
	}{
		{path: "root@id", expected: "main"},
		{path: "root/timeout", expected: "30"},
		{path: "root/enabled", expected: "true"},
		{path: "root/hosts[1]", expected: "b.example.org"},
		{path: "root/workers[1]/threads", expected: "4"},
		{path: "root/$env", expected: "prod"},
		{path: "root/database/url", expected: "postgres://prod-db"},
	}

	for _, tt := range tests {
		value, ok := cfg.Find(tt.path).(*config.ValueNode)
		require.Truef(t, ok, "path %q", tt.path)
		assert.Equalf(t, tt.expected, value.Value(), "path %q", tt.path)
	}

	password, ok := cfg.Find("root/password").(*config.ValueNode)
	require.True(t, ok)
	assert.True(t, password.Encrypted())

	bundle, ok := cfg.Find("root/bundle").(*config.ResourceNode)
	require.True(t, ok)
	assert.Equal(t, config.ResourceZip, bundle.Kind())
	assert.Equal(t, "example.org", bundle.Location().Host)
}

func TestBuild_Include(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	root := doc["configuration"].(map[string]any)["root"].(map[string]any) //nolint:forcetypeassert // fixture shape
	root["shared"] = map[string]any{"_type": "include", "location": "shared.json"}

	var requested string

	loader := func(location string) (*config.Configuration, error) {
		requested = location

		included := config.New(nil)
		included.Header = config.NewHeader("billing", "invoicer", "shared", "1.0.0", "alice")
		sharedRoot := config.NewPathNode(included, nil, "common")
		included.SetRoot(sharedRoot)

		err := sharedRoot.AddChildNode(config.NewValueNode(included, sharedRoot, "port", "8443"))

		return included, err
	}

	cfg := config.New(nil)
	require.NoError(t, Build(doc, cfg, loader))

	assert.Equal(t, "shared.json", requested)

	port, ok := cfg.Find("root/shared/port").(*config.ValueNode)
	require.True(t, ok)
	assert.Equal(t, "8443", port.Value())

	t.Run("without loader", func(t *testing.T) {
		t.Parallel()

		err := Build(doc, config.New(nil), nil)
		require.ErrorIs(t, err, ErrNoIncludeLoader)
	})

	t.Run("loader failure", func(t *testing.T) {
		t.Parallel()

		failure := errors.New("boom")

		err := Build(doc, config.New(nil), func(string) (*config.Configuration, error) {
			return nil, failure
		})
		require.ErrorIs(t, err, failure)
	})
}

func TestBuild_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  any
		err  error
	}{
		{name: "not an object", doc: []any{}, err: ErrInvalidDocument},
		{name: "no configuration", doc: map[string]any{"other": map[string]any{}}, err: ErrInvalidDocument},
		{
			name: "two roots",
			doc:  map[string]any{"configuration": map[string]any{"a": map[string]any{}, "b": map[string]any{}}},
			err:  ErrInvalidDocument,
		},
		{
			name: "scalar root",
			doc:  map[string]any{"configuration": map[string]any{"a": "x"}},
			err:  ErrInvalidDocument,
		},
		{
			name: "unknown directive",
			doc:  map[string]any{"configuration": map[string]any{"a": map[string]any{"b": map[string]any{"_type": "zzz"}}}},
			err:  ErrInvalidDocument,
		},
		{
			name: "mixed list",
			doc: map[string]any{"configuration": map[string]any{"a": map[string]any{
				"b": []any{map[string]any{"x": "1"}, "scalar"},
			}}},
			err: ErrInvalidDocument,
		},
		{
			name: "bad resource kind",
			doc: map[string]any{"configuration": map[string]any{"a": map[string]any{
				"b": map[string]any{"_type": "resource", "kind": "tarball", "location": "x"},
			}}},
			err: config.ErrUnknownResourceKind,
		},
		{
			name: "attributes not an object",
			doc:  map[string]any{"configuration": map[string]any{"a": map[string]any{"@": "x"}}},
			err:  ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Build(tt.doc, config.New(nil), nil)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExport_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.New(nil)
	require.NoError(t, Build(sampleDocument(), cfg, nil))

	exported, err := Export(cfg)
	require.NoError(t, err)

	again := config.New(nil)
	require.NoError(t, Build(exported, again, nil))
	require.NoError(t, again.Validate())

	config.Walk(cfg.Root(), func(n config.Node) bool {
		path := config.PathOf(n)
		found := again.Find(path)

		require.NotNilf(t, found, "path %s", path)
		assert.IsTypef(t, n, found, "path %s", path)

		if value, ok := n.(*config.ValueNode); ok {
			assert.Equalf(t, value.Value(), found.(*config.ValueNode).Value(), "path %s", path) //nolint:forcetypeassert // checked by IsType
		}

		return true
	})

	assert.Equal(t, cfg.Header.ID, again.Header.ID)
	assert.True(t, cfg.Header.UpdatedBy.Timestamp.Equal(again.Header.UpdatedBy.Timestamp))
}

func TestExportNode(t *testing.T) {
	t.Parallel()

	cfg := config.New(nil)
	require.NoError(t, Build(sampleDocument(), cfg, nil))

	hosts, err := ExportNode(cfg.Find("root/hosts"))
	require.NoError(t, err)
	assert.Equal(t, []any{"a.example.org", "b.example.org"}, hosts)

	threads, err := ExportNode(cfg.Find("root/workers/*/threads"))
	require.NoError(t, err)
	assert.Equal(t, []any{"2", "4"}, threads)

	attributes, err := ExportNode(cfg.Find("root/@"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "main"}, attributes)

	_, err = ExportNode(nil)
	require.ErrorIs(t, err, config.ErrUnsupportedNode)
}
