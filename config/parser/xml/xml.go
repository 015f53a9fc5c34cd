package xml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/document"
	"github.com/beevik/etree"
)

// Names of the fixed elements and header attributes.
const (
	ConfigurationElement = "configuration"
	HeaderElement        = "header"
	RootElement          = "root"
	DescriptionElement   = "description"
	CreatedByElement     = "createdBy"
	UpdatedByElement     = "updatedBy"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrInvalidDocument is returned when the XML does not have the configuration shape.
var ErrInvalidDocument = errors.New("invalid configuration document")

// ErrDuplicateElement is returned when an element that is not a list repeats a child tag.
var ErrDuplicateElement = errors.New("duplicate child element")

// Parser implements config.Parser for XML documents.
type Parser struct {
	includeLoader config.IncludeLoader
}

// Option configures a Parser.
type Option func(*Parser)

// WithIncludeLoader sets the loader used for _type="include" elements.
func WithIncludeLoader(loader config.IncludeLoader) Option {
	return func(p *Parser) {
		p.includeLoader = loader
	}
}

// NewParser creates a new XML parser instance.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{includeLoader: nil}
	for _, opt := range opts {
		opt(parser)
	}

	return parser
}

// Parse reads an XML document and builds the configuration tree into target.
func (p *Parser) Parse(data []byte, target *config.Configuration) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	doc := etree.NewDocument()

	err := doc.ReadFromBytes(data)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	top := doc.Root()
	if top == nil || top.Tag != ConfigurationElement {
		return fmt.Errorf("%w: root element must be <%s>", ErrInvalidDocument, ConfigurationElement)
	}

	header, err := parseHeader(top)
	if err != nil {
		return err
	}

	target.Header = header

	wrapper, err := rootElement(top)
	if err != nil {
		return err
	}

	elements := wrapper.ChildElements()
	if len(elements) != 1 {
		return fmt.Errorf("%w: <%s> must hold exactly one element, found %d",
			ErrInvalidDocument, RootElement, len(elements))
	}

	b := &builder{cfg: target, loader: p.includeLoader}
	root := config.NewPathNode(target, nil, elements[0].Tag)
	target.SetRoot(root)

	return b.fill(root, elements[0])
}

// rootElement returns the <root> wrapper, the only element besides <header> under <configuration>.
func rootElement(top *etree.Element) (*etree.Element, error) {
	var wrapper *etree.Element

	for _, child := range top.ChildElements() {
		switch {
		case child.Tag == HeaderElement:
		case child.Tag != RootElement:
			return nil, fmt.Errorf("%w: unexpected <%s> in <%s>", ErrInvalidDocument, child.Tag, ConfigurationElement)
		case wrapper != nil:
			return nil, fmt.Errorf("%w: more than one <%s>", ErrInvalidDocument, RootElement)
		default:
			wrapper = child
		}
	}

	if wrapper == nil {
		return nil, fmt.Errorf("%w: missing <%s>", ErrInvalidDocument, RootElement)
	}

	return wrapper, nil
}

func parseHeader(top *etree.Element) (*config.Header, error) {
	header := &config.Header{
		ID:               top.SelectAttrValue("id", ""),
		ApplicationGroup: top.SelectAttrValue("group", ""),
		ApplicationName:  top.SelectAttrValue("application", ""),
		Name:             top.SelectAttrValue("name", ""),
		Version:          top.SelectAttrValue("version", ""),
		Description:      "",
		CreatedBy:        nil,
		UpdatedBy:        nil,
	}

	element := top.SelectElement(HeaderElement)
	if element == nil {
		return header, nil
	}

	if description := element.SelectElement(DescriptionElement); description != nil {
		header.Description = strings.TrimSpace(description.Text())
	}

	var err error

	header.CreatedBy, err = parseModifiedBy(element.SelectElement(CreatedByElement))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CreatedByElement, err)
	}

	header.UpdatedBy, err = parseModifiedBy(element.SelectElement(UpdatedByElement))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", UpdatedByElement, err)
	}

	return header, nil
}

func parseModifiedBy(element *etree.Element) (*config.ModifiedBy, error) {
	if element == nil {
		return nil, nil //nolint:nilnil // absent audit record is reported by Header.Validate
	}

	modified := &config.ModifiedBy{User: element.SelectAttrValue("user", "")} //nolint:exhaustruct // timestamp below

	if raw := element.SelectAttrValue("timestamp", ""); raw != "" {
		timestamp, err := config.ParseTimestamp(raw)
		if err != nil {
			return nil, err //nolint:wrapcheck // already describes the value
		}

		modified.Timestamp = timestamp
	}

	return modified, nil
}

type builder struct {
	cfg    *config.Configuration
	loader config.IncludeLoader
}

// fill adds the attributes and child elements of element to node.
func (b *builder) fill(node *config.PathNode, element *etree.Element) error {
	if text := textOf(element); text != "" {
		return fmt.Errorf("%w: <%s> at %s mixes text %q with attributes or elements",
			ErrInvalidDocument, element.Tag, config.PathOf(node), text)
	}

	attributes := attributesOf(element)
	if len(attributes) > 0 {
		kv := config.NewAttributesNode(b.cfg, node)
		for _, attr := range attributes {
			kv.Add(attr.Key, attr.Value)
		}

		err := node.AddChildNode(kv)
		if err != nil {
			return err //nolint:wrapcheck // names the node already
		}
	}

	settings := b.cfg.Settings
	seen := make(map[string]bool)

	for _, child := range element.ChildElements() {
		if seen[child.Tag] {
			return fmt.Errorf("%w: <%s> in %s", ErrDuplicateElement, child.Tag, config.PathOf(node))
		}

		seen[child.Tag] = true

		var (
			built config.Node
			err   error
		)

		switch child.Tag {
		case settings.ParametersNodeName:
			built, err = b.keyValue(config.NewParametersNode(b.cfg, node), child)
		case settings.PropertiesNodeName:
			built, err = b.keyValue(config.NewPropertiesNode(b.cfg, node), child)
		default:
			built, err = b.node(node, child)
		}

		if err != nil {
			return err
		}

		err = node.AddChildNode(built)
		if err != nil {
			return err //nolint:wrapcheck // names the node already
		}
	}

	return nil
}

func (b *builder) keyValue(kv *config.KeyValueNode, element *etree.Element) (config.Node, error) {
	for _, child := range element.ChildElements() {
		value := b.value(kv, child)

		err := kv.AddValue(value)
		if err != nil {
			return nil, err //nolint:wrapcheck // names the node already
		}
	}

	return kv, nil
}

// node builds the tree node for a non-root element.
func (b *builder) node(parent config.Node, element *etree.Element) (config.Node, error) {
	switch directive(element) {
	case document.TypeEncrypted:
		return b.value(parent, element), nil
	case document.TypeInclude:
		return b.include(parent, element)
	case document.TypeResource:
		return document.BuildResource(b.cfg, parent, element.Tag,
			element.SelectAttrValue(document.KindKey, ""),
			element.SelectAttrValue(document.LocationKey, ""),
			element.SelectAttrValue(document.ResourceNameKey, ""))
	case document.TypeList:
		return b.list(parent, element)
	case "":
	default:
		return nil, fmt.Errorf("%w: unknown %s %q on <%s>", ErrInvalidDocument, document.TypeKey, directive(element), element.Tag)
	}

	if isText(element) {
		return b.value(parent, element), nil
	}

	if isImplicitList(element) {
		return b.list(parent, element)
	}

	node := config.NewPathNode(b.cfg, parent, element.Tag)

	err := b.fill(node, element)
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (b *builder) value(parent config.Node, element *etree.Element) *config.ValueNode {
	value := config.NewValueNode(b.cfg, parent, element.Tag, strings.TrimSpace(element.Text()))
	value.SetEncrypted(directive(element) == document.TypeEncrypted)

	return value
}

func (b *builder) list(parent config.Node, element *etree.Element) (config.Node, error) {
	items := element.ChildElements()

	allText := true
	for _, item := range items {
		allText = allText && isText(item)
	}

	if allText {
		list := config.NewListValueNode(b.cfg, parent, element.Tag)

		for _, item := range items {
			err := list.Add(b.value(list, item))
			if err != nil {
				return nil, err //nolint:wrapcheck // names the list already
			}
		}

		return list, nil
	}

	list := config.NewElementListNode(b.cfg, parent, element.Tag)

	for _, item := range items {
		node := config.NewPathNode(b.cfg, list, item.Tag)

		err := b.fill(node, item)
		if err != nil {
			return nil, err
		}

		err = list.Add(node)
		if err != nil {
			return nil, err //nolint:wrapcheck // names the list already
		}
	}

	return list, nil
}

func (b *builder) include(parent config.Node, element *etree.Element) (config.Node, error) {
	location := element.SelectAttrValue(document.LocationKey, "")

	if b.loader == nil {
		return nil, fmt.Errorf("%s/%s: %w", config.PathOf(parent), element.Tag, document.ErrNoIncludeLoader)
	}

	included, err := b.loader(location)
	if err != nil {
		return nil, fmt.Errorf("including %q at %s/%s: %w", location, config.PathOf(parent), element.Tag, err)
	}

	return config.NewIncludeNode(b.cfg, parent, element.Tag, location, included), nil
}

func directive(element *etree.Element) string {
	return element.SelectAttrValue(document.TypeKey, "")
}

// attributesOf returns the attributes of element without directives and namespace declarations.
func attributesOf(element *etree.Element) []etree.Attr {
	var attributes []etree.Attr

	for _, attr := range element.Attr {
		if attr.Key == document.TypeKey || attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}

		attributes = append(attributes, attr)
	}

	return attributes
}

// textOf returns the non-blank character data directly under element.
func textOf(element *etree.Element) string {
	var text strings.Builder

	for _, token := range element.Child {
		if data, ok := token.(*etree.CharData); ok {
			text.WriteString(data.Data)
		}
	}

	return strings.TrimSpace(text.String())
}

// isText reports whether element holds only text: no child elements and no attributes
// other than an encryption directive.
func isText(element *etree.Element) bool {
	if len(element.ChildElements()) > 0 {
		return false
	}

	d := directive(element)

	return len(attributesOf(element)) == 0 && (d == "" || d == document.TypeEncrypted)
}

// isImplicitList reports whether element has no attributes and two or more children sharing one tag.
func isImplicitList(element *etree.Element) bool {
	children := element.ChildElements()
	if len(children) < 2 || len(attributesOf(element)) > 0 {
		return false
	}

	for _, child := range children[1:] {
		if child.Tag != children[0].Tag {
			return false
		}
	}

	return true
}
