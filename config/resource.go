package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
)

// ResourceKind is the type of artifact a ResourceNode points at.
type ResourceKind int

// Resource kinds.
const (
	ResourceFile ResourceKind = iota + 1
	ResourceDirectory
	ResourceZip
)

// ErrUnknownResourceKind is returned by ParseResourceKind for unrecognised names.
var ErrUnknownResourceKind = errors.New("unknown resource kind")

func (k ResourceKind) String() string {
	switch k {
	case ResourceFile:
		return "file"
	case ResourceDirectory:
		return "directory"
	case ResourceZip:
		return "zip"
	default:
		return "unknown"
	}
}

// ParseResourceKind reads a kind name as written by ResourceKind.String.
func ParseResourceKind(name string) (ResourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "file", "":
		return ResourceFile, nil
	case "directory", "dir":
		return ResourceDirectory, nil
	case "zip":
		return ResourceZip, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownResourceKind, name)
	}
}

// FetchFunc materializes a resource and returns the local path of the result.
type FetchFunc func(ctx context.Context, resource *ResourceNode) (string, error)

// ResourceNode describes an external artifact referenced by the configuration.
// The tree never downloads anything itself; EnsureDownloaded runs a caller supplied
// FetchFunc at most once per node.
type ResourceNode struct {
	base

	kind         ResourceKind
	location     *url.URL
	resourceName string

	mu         sync.Mutex
	downloaded bool
	localPath  string
}

// NewResourceNode creates a resource node owned by parent.
func NewResourceNode(
	cfg *Configuration,
	parent Node,
	name string,
	kind ResourceKind,
	location *url.URL,
	resourceName string,
) *ResourceNode {
	return &ResourceNode{ //nolint:exhaustruct // mutex and download state start zeroed
		base:         newBase(cfg, parent, name),
		kind:         kind,
		location:     location,
		resourceName: resourceName,
	}
}

// Kind returns the resource kind.
func (r *ResourceNode) Kind() ResourceKind {
	return r.kind
}

// Location returns the resource URI.
func (r *ResourceNode) Location() *url.URL {
	return r.location
}

// ResourceName returns the logical name of the artifact.
func (r *ResourceNode) ResourceName() string {
	return r.resourceName
}

// Downloaded reports whether the resource has been materialized.
func (r *ResourceNode) Downloaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.downloaded
}

// LocalPath returns where the resource was materialized, or "" before download.
func (r *ResourceNode) LocalPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.localPath
}

// EnsureDownloaded runs fetch unless the resource is already materialized. Concurrent
// callers block on the node and observe the first successful result.
func (r *ResourceNode) EnsureDownloaded(ctx context.Context, fetch FetchFunc) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.downloaded {
		return r.localPath, nil
	}

	localPath, err := fetch(ctx, r)
	if err != nil {
		return "", fmt.Errorf("fetching resource %s: %w", r.resourceName, err)
	}

	r.localPath = localPath
	r.downloaded = true

	return localPath, nil
}

// Find resolves path relative to this node.
func (r *ResourceNode) Find(path string) Node {
	return search(r, path)
}

// FindPath matches the node name or the resource name as the last segment.
func (r *ResourceNode) FindPath(path []string, index int) Node {
	if index >= len(path) {
		return nil
	}

	segment := path[index]
	if segment == ParentReference {
		return escapeToParent(r, path, index)
	}

	if segment != r.name && segment != r.resourceName {
		return nil
	}

	if isLast(path, index) {
		return r
	}

	if path[index+1] == ParentReference {
		return escapeToParent(r, path, index+1)
	}

	return nil
}

// PostLoad moves the node to Synced.
func (r *ResourceNode) PostLoad() error {
	return r.postLoad()
}

// Validate requires a location and resource name, and that local file locations exist.
func (r *ResourceNode) Validate() error {
	err := r.validate(r)
	if err != nil {
		return err
	}

	if r.location == nil || r.location.String() == "" {
		return fmt.Errorf("resource %s: %w: Location", PathOf(r), ErrPropertyMissing)
	}

	if r.resourceName == "" {
		return fmt.Errorf("resource %s: %w: ResourceName", PathOf(r), ErrPropertyMissing)
	}

	if r.location.Scheme != "" && r.location.Scheme != "file" {
		return nil
	}

	info, err := os.Stat(r.location.Path)
	if err != nil {
		return fmt.Errorf("resource %s: %w: %s", PathOf(r), ErrResourceMissing, r.location.Path)
	}

	if (r.kind == ResourceDirectory) != info.IsDir() {
		return fmt.Errorf("resource %s: %w: %s is not a %s", PathOf(r), ErrResourceMissing, r.location.Path, r.kind)
	}

	return nil
}

// UpdateState sets the node state.
func (r *ResourceNode) UpdateState(state State) {
	r.state = state
}

// UpdateConfiguration sets the owning configuration.
func (r *ResourceNode) UpdateConfiguration(cfg *Configuration) {
	r.configuration = cfg
}
