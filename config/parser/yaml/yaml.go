package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/document"
	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser interface for YAML data.
// It uses goccy/go-yaml PathString to locate documents embedded in larger files.
type Parser struct {
	includeLoader config.IncludeLoader
	path          string
}

// Option configures a Parser.
type Option func(*Parser)

// WithIncludeLoader sets the loader used for include directives.
func WithIncludeLoader(loader config.IncludeLoader) Option {
	return func(p *Parser) {
		p.includeLoader = loader
	}
}

// WithPath reads the configuration document found under a colon-separated path,
// for example "services:billing".
func WithPath(path string) Option {
	return func(p *Parser) {
		p.path = path
	}
}

// NewParser creates a new YAML parser instance.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{includeLoader: nil, path: ""}
	for _, opt := range opts {
		opt(parser)
	}

	return parser
}

// Parse decodes YAML data and builds the configuration tree into target.
func (p *Parser) Parse(data []byte, target *config.Configuration) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	doc, err := p.decode(data)
	if err != nil {
		return err
	}

	err = document.Build(doc, target, p.includeLoader)
	if err != nil {
		return fmt.Errorf("building configuration: %w", err)
	}

	return nil
}

func (p *Parser) decode(data []byte) (any, error) {
	var doc any

	if p.path == "" {
		err := yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, fmt.Errorf("unmarshal error: %w", err)
		}

		return doc, nil
	}

	yamlPath := convertToYAMLPath(p.path)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", p.path, err)
	}

	err = pathObj.Read(bytes.NewReader(data), &doc)
	if err != nil {
		if isKeyNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p.path)
		}

		return nil, fmt.Errorf("reading path %q: %w", p.path, err)
	}

	return doc, nil
}

// Encode writes cfg as a YAML document.
func Encode(cfg *config.Configuration) ([]byte, error) {
	doc, err := document.Export(cfg)
	if err != nil {
		return nil, fmt.Errorf("exporting configuration: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

// EncodeNode writes a single node, or every node of a search result, as YAML.
func EncodeNode(n config.Node) ([]byte, error) {
	value, err := document.ExportNode(n)
	if err != nil {
		return nil, fmt.Errorf("exporting node: %w", err)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "services:billing" -> "$.services.billing"
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	return "$." + strings.Join(parts, ".")
}

// isKeyNotFoundError checks if the error indicates a key was not found.
func isKeyNotFoundError(err error) bool {
	return yaml.IsNotFoundNodeError(err)
}
