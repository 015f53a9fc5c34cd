package json

import (
	"errors"
	"fmt"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/document"
	"github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the WithPath expression selects nothing.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser for JSON documents.
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

// WithPath selects the configuration document with a JSONPath expression instead of
// reading it from the top level.
func WithPath(path string) Option {
	return func(p *Parser) {
		p.path = path
	}
}

// NewParser creates a new JSON parser instance.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{includeLoader: nil, path: ""}
	for _, opt := range opts {
		opt(parser)
	}

	return parser
}

// Parse decodes data and builds the configuration tree into target.
func (p *Parser) Parse(data []byte, target *config.Configuration) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	doc, err := oj.Parse(data)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	if p.path != "" {
		expr, err := jp.ParseString(p.path)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", p.path, err)
		}

		matches := expr.Get(doc)
		if len(matches) == 0 {
			return fmt.Errorf("%w: %s", ErrPathNotFound, p.path)
		}

		doc = matches[0]
	}

	err = document.Build(doc, target, p.includeLoader)
	if err != nil {
		return fmt.Errorf("building configuration: %w", err)
	}

	return nil
}

// Encode writes cfg as an indented JSON document.
func Encode(cfg *config.Configuration) ([]byte, error) {
	doc, err := document.Export(cfg)
	if err != nil {
		return nil, fmt.Errorf("exporting configuration: %w", err)
	}

	return encode(doc)
}

// EncodeNode writes a single node, or every node of a search result, as JSON.
func EncodeNode(n config.Node) ([]byte, error) {
	value, err := document.ExportNode(n)
	if err != nil {
		return nil, fmt.Errorf("exporting node: %w", err)
	}

	return encode(value)
}

func encode(value any) ([]byte, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}
