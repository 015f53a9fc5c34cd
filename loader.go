package hconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/fetcher/file"
	"github.com/0xalexb/hjarta-config/config/fetcher/remote"
	jsonparser "github.com/0xalexb/hjarta-config/config/parser/json"
	xmlparser "github.com/0xalexb/hjarta-config/config/parser/xml"
	yamlparser "github.com/0xalexb/hjarta-config/config/parser/yaml"
)

// ErrUnsupportedFormat is returned for locations whose extension names no known document format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document formats, named by file extension.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadOptions configures Load.
type LoadOptions struct {
	Settings *config.Settings
	Remote   []remote.Option
	Format   string
}

// LoadOption is a functional option for Load.
type LoadOption func(*LoadOptions)

// WithSettings sets the settings of the loaded configuration and of every include.
func WithSettings(settings *config.Settings) LoadOption {
	return func(o *LoadOptions) {
		o.Settings = settings
	}
}

// WithRemoteOptions configures how http and https locations are downloaded.
func WithRemoteOptions(opts ...remote.Option) LoadOption {
	return func(o *LoadOptions) {
		o.Remote = append(o.Remote, opts...)
	}
}

// WithFormat forces the document format of the top level location instead of taking it
// from the extension. Includes are still detected by extension.
func WithFormat(format string) LoadOption {
	return func(o *LoadOptions) {
		o.Format = format
	}
}

// LoadFile loads the configuration document at path.
func LoadFile(path string, opts ...LoadOption) (*config.Configuration, error) {
	return Load(context.Background(), path, opts...)
}

// Load fetches, parses, validates and post-loads the configuration at location, which is
// a file path, a file:// URI or an http(s) URL. Includes are resolved relative to the
// document that contains them; an include that leads back to one of its ancestors fails
// with config.ErrIncludeCycle.
func Load(ctx context.Context, location string, opts ...LoadOption) (*config.Configuration, error) {
	options := &LoadOptions{Settings: nil, Remote: nil, Format: ""}
	for _, opt := range opts {
		opt(options)
	}

	l := &loader{ctx: ctx, options: options}

	return l.load(location, options.Format, nil)
}

type loader struct {
	ctx     context.Context //nolint:containedctx // lives for a single Load call
	options *LoadOptions
}

func (l *loader) load(location, format string, chain []string) (*config.Configuration, error) {
	key := canonical(location)
	if slices.Contains(chain, key) {
		return nil, fmt.Errorf("%w: %s", config.ErrIncludeCycle, strings.Join(append(chain, key), " -> "))
	}

	chain = append(slices.Clone(chain), key)

	if format == "" {
		format = FormatOf(location)
	}

	parser, err := NewParser(format, l.includeLoader(location, chain))
	if err != nil {
		return nil, err
	}

	fetcher, err := l.fetcher(location)
	if err != nil {
		return nil, err
	}

	slog.Debug("loading configuration", slog.String("location", location), slog.Int("depth", len(chain)))

	var loadOpts []config.Option
	if l.options.Settings != nil {
		settings := *l.options.Settings
		loadOpts = append(loadOpts, config.WithSettings(&settings))
	}

	cfg, err := config.Load(parser, fetcher, loadOpts...)
	if err != nil {
		return cfg, fmt.Errorf("loading %s: %w", location, err)
	}

	return cfg, nil
}

func (l *loader) includeLoader(base string, chain []string) config.IncludeLoader {
	return func(location string) (*config.Configuration, error) {
		return l.load(Resolve(base, location), "", chain)
	}
}

func (l *loader) fetcher(location string) (config.DataFetcher, error) {
	if isRemote(location) {
		opts := append([]remote.Option{remote.WithContext(l.ctx)}, l.options.Remote...)

		fetcher, err := remote.NewFetcher(location, opts...)()
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", location, err)
		}

		return fetcher, nil
	}

	fetcher, err := file.NewFetcher(location)()
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}

	return fetcher, nil
}

// NewParser returns the parser for format. loader resolves include directives and may be nil.
//
//nolint:ireturn // the parser is chosen at runtime
func NewParser(format string, loader config.IncludeLoader) (config.Parser, error) {
	switch strings.ToLower(format) {
	case FormatXML:
		return xmlparser.NewParser(xmlparser.WithIncludeLoader(loader)), nil
	case FormatJSON:
		return jsonparser.NewParser(jsonparser.WithIncludeLoader(loader)), nil
	case FormatYAML, "yml":
		return yamlparser.NewParser(yamlparser.WithIncludeLoader(loader)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode renders cfg in format.
func Encode(cfg *config.Configuration, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatXML:
		return xmlparser.Encode(cfg) //nolint:wrapcheck // encoders describe their errors
	case FormatJSON:
		return jsonparser.Encode(cfg) //nolint:wrapcheck // encoders describe their errors
	case FormatYAML, "yml":
		return yamlparser.Encode(cfg) //nolint:wrapcheck // encoders describe their errors
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeNode renders a single node, or a search result, in format.
func EncodeNode(n config.Node, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatXML:
		return xmlparser.EncodeNode(n) //nolint:wrapcheck // encoders describe their errors
	case FormatJSON:
		return jsonparser.EncodeNode(n) //nolint:wrapcheck // encoders describe their errors
	case FormatYAML, "yml":
		return yamlparser.EncodeNode(n) //nolint:wrapcheck // encoders describe their errors
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatOf returns the document format named by the extension of location.
func FormatOf(location string) string {
	name := location

	if parsed, err := url.Parse(location); err == nil && parsed.Scheme != "" && len(parsed.Scheme) > 1 {
		name = parsed.Path
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "yml" {
		return FormatYAML
	}

	return ext
}

// Resolve returns location relative to the document at base. Absolute paths and URLs
// are returned unchanged.
func Resolve(base, location string) string {
	if isRemote(location) || strings.HasPrefix(location, file.Scheme+"://") || filepath.IsAbs(location) {
		return location
	}

	if isRemote(base) {
		baseURL, err := url.Parse(base)
		if err != nil {
			return location
		}

		ref, err := url.Parse(location)
		if err != nil {
			return location
		}

		return baseURL.ResolveReference(ref).String()
	}

	return filepath.Join(filepath.Dir(file.Path(base)), location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func canonical(location string) string {
	if isRemote(location) {
		return location
	}

	abs, err := filepath.Abs(file.Path(location))
	if err != nil {
		return filepath.Clean(location)
	}

	return abs
}
