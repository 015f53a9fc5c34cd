package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected ResourceKind
		wantErr  bool
	}{
		{input: "file", expected: ResourceFile},
		{input: "", expected: ResourceFile},
		{input: "Directory", expected: ResourceDirectory},
		{input: "dir", expected: ResourceDirectory},
		{input: " zip ", expected: ResourceZip},
		{input: "tarball", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			kind, err := ParseResourceKind(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownResourceKind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
			assert.Equal(t, kind, mustKind(t, kind.String()))
		})
	}
}

func mustKind(t *testing.T, name string) ResourceKind {
	t.Helper()

	kind, err := ParseResourceKind(name)
	require.NoError(t, err)

	return kind
}

func TestResourceNode_EnsureDownloadedOnce(t *testing.T) {
	t.Parallel()

	resource := NewResourceNode(nil, nil, "bundle", ResourceZip, mustURL(t, "https://example.org/b.zip"), "b.zip")

	var calls atomic.Int32

	fetch := func(_ context.Context, r *ResourceNode) (string, error) {
		calls.Add(1)

		return "/cache/" + r.ResourceName(), nil
	}

	var wg sync.WaitGroup

	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			path, err := resource.EnsureDownloaded(context.Background(), fetch)
			assert.NoError(t, err)
			assert.Equal(t, "/cache/b.zip", path)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, resource.Downloaded())
	assert.Equal(t, "/cache/b.zip", resource.LocalPath())
}

func TestResourceNode_EnsureDownloadedRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	resource := NewResourceNode(nil, nil, "bundle", ResourceFile, mustURL(t, "https://example.org/a.txt"), "a.txt")
	failure := errors.New("network down")

	_, err := resource.EnsureDownloaded(context.Background(), func(context.Context, *ResourceNode) (string, error) {
		return "", failure
	})
	require.ErrorIs(t, err, failure)
	assert.False(t, resource.Downloaded())

	path, err := resource.EnsureDownloaded(context.Background(), func(context.Context, *ResourceNode) (string, error) {
		return "/cache/a.txt", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "/cache/a.txt", path)
}

func TestResourceNode_Validate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0o600))

	tests := []struct {
		name     string
		kind     ResourceKind
		location string
		resource string
		err      error
	}{
		{name: "local file", kind: ResourceFile, location: "file://" + file, resource: "data.txt"},
		{name: "plain path", kind: ResourceFile, location: file, resource: "data.txt"},
		{name: "local directory", kind: ResourceDirectory, location: dir, resource: "dir"},
		{name: "remote is not checked", kind: ResourceZip, location: "https://example.org/x.zip", resource: "x.zip"},
		{name: "missing file", kind: ResourceFile, location: filepath.Join(dir, "nope"), resource: "nope", err: ErrResourceMissing},
		{name: "directory expected", kind: ResourceDirectory, location: file, resource: "data", err: ErrResourceMissing},
		{name: "missing resource name", kind: ResourceFile, location: file, resource: "", err: ErrPropertyMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resource := NewResourceNode(nil, nil, "res", tt.kind, mustURL(t, tt.location), tt.resource)

			err := resource.Validate()
			if tt.err == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.err)
		})
	}

	missing := NewResourceNode(nil, nil, "res", ResourceFile, nil, "x")
	require.ErrorIs(t, missing.Validate(), ErrPropertyMissing)
}
