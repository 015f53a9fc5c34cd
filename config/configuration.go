package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Configuration owns a node tree together with its header and settings. It is the entry
// point for absolute searches, validation and the post-load lifecycle step.
//
// A Configuration is built by a single goroutine and is safe for concurrent Find calls
// afterwards. Mutating the tree while it is being searched requires external locking.
type Configuration struct {
	Header   *Header
	Settings *Settings

	root     *PathNode
	state    State
	location string
	includer *IncludeNode
	paths    *lru.Cache[string, []string]
}

// New returns an empty configuration in the Loading state. A nil settings value selects
// DefaultSettings; otherwise unset fields are defaulted in place.
func New(settings *Settings) *Configuration {
	if settings == nil {
		settings = DefaultSettings()
	} else {
		settings.SetDefaults()
	}

	paths, err := lru.New[string, []string](settings.PathCacheSize)
	if err != nil {
		paths = nil
	}

	return &Configuration{
		Header:   nil,
		Settings: settings,
		root:     nil,
		state:    StateLoading,
		location: "",
		includer: nil,
		paths:    paths,
	}
}

// Root returns the root node, or nil before SetRoot.
func (c *Configuration) Root() *PathNode {
	return c.root
}

// SetRoot installs root as the root node. The root has no parent.
func (c *Configuration) SetRoot(root *PathNode) {
	if root != nil {
		root.parent = nil
		root.UpdateConfiguration(c)
	}

	c.root = root
}

// State returns the lifecycle state of the configuration.
func (c *Configuration) State() State {
	return c.state
}

// SetState overrides the lifecycle state. StateError makes PostLoad fail until cleared.
func (c *Configuration) SetState(state State) {
	c.state = state
}

// Location returns where the configuration was loaded from, if known.
func (c *Configuration) Location() string {
	return c.location
}

// SetLocation records where the configuration was loaded from.
func (c *Configuration) SetLocation(location string) {
	c.location = location
}

// Includer returns the include node this configuration is spliced under, or nil.
func (c *Configuration) Includer() *IncludeNode {
	return c.includer
}

func (c *Configuration) settings() *Settings {
	if c == nil || c.Settings == nil {
		return DefaultSettings()
	}

	return c.Settings
}

// segments tokenizes path through the cache. The returned slice is owned by the caller.
func (c *Configuration) segments(path string) []string {
	if c == nil || c.paths == nil {
		return SplitPath(path)
	}

	cached, ok := c.paths.Get(path)
	if ok {
		return slices.Clone(cached)
	}

	segments := SplitPath(path)
	c.paths.Add(path, segments)

	return slices.Clone(segments)
}

// Find resolves an absolute search path. A single leading "/" is optional; an empty path
// returns the root.
func (c *Configuration) Find(path string) Node {
	if c.root == nil {
		return nil
	}

	path = strings.TrimPrefix(strings.TrimSpace(path), PathSeparator)

	segments := c.segments(path)
	if len(segments) == 0 {
		return c.root
	}

	if segments[0] == CurrentReference {
		segments[0] = c.root.name
	}

	segments = dropCurrent(segments)
	if len(segments) == 0 {
		return c.root
	}

	return c.root.FindPath(segments, 0)
}

// Validate checks the header, the presence of a root and every node below it.
func (c *Configuration) Validate() error {
	if c.Header == nil {
		return fmt.Errorf("%w: Header", ErrPropertyMissing)
	}

	err := c.Header.Validate()
	if err != nil {
		return fmt.Errorf("invalid header: %w", err)
	}

	if c.root == nil {
		return fmt.Errorf("%w: RootConfigNode", ErrPropertyMissing)
	}

	err = c.root.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration %s: %w", c.Header.Name, err)
	}

	return nil
}

// PostLoad resolves property references and moves the whole tree to Synced. It fails
// when the configuration or any node is in the Error state.
func (c *Configuration) PostLoad() error {
	if c.state == StateError {
		return fmt.Errorf("%w: configuration is in error state", ErrInvalidState)
	}

	if c.root == nil {
		return fmt.Errorf("%w: RootConfigNode", ErrPropertyMissing)
	}

	if !c.settings().DisableInterpolation {
		replaced := interpolate(c.root)
		if replaced > 0 {
			slog.Debug("properties interpolated", slog.Int("values", replaced), slog.String("location", c.location))
		}
	}

	err := c.root.PostLoad()
	if err != nil {
		c.state = StateError

		return fmt.Errorf("post load: %w", err)
	}

	c.state = StateSynced

	return nil
}
