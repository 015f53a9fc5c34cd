package xml

import (
	"fmt"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/document"
	"github.com/beevik/etree"
)

// Encode writes cfg as an indented XML document that Parse reads back to an equivalent tree.
func Encode(cfg *config.Configuration) ([]byte, error) {
	root := cfg.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: RootConfigNode", config.ErrPropertyMissing)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	top := doc.CreateElement(ConfigurationElement)
	if cfg.Header != nil {
		encodeHeader(top, cfg.Header)
	}

	err := encodeNode(top.CreateElement(RootElement), root)
	if err != nil {
		return nil, err
	}

	return write(doc)
}

// EncodeNode writes a single node as an XML fragment. A search result is written as a
// <search-result> element wrapping every result.
func EncodeNode(n config.Node) ([]byte, error) {
	doc := etree.NewDocument()

	err := encodeNode(&doc.Element, n)
	if err != nil {
		return nil, err
	}

	return write(doc)
}

func write(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

func encodeHeader(top *etree.Element, header *config.Header) {
	top.CreateAttr("id", header.ID)
	top.CreateAttr("group", header.ApplicationGroup)
	top.CreateAttr("application", header.ApplicationName)
	top.CreateAttr("name", header.Name)
	top.CreateAttr("version", header.Version)

	element := top.CreateElement(HeaderElement)

	if header.Description != "" {
		element.CreateElement(DescriptionElement).SetText(header.Description)
	}

	encodeModifiedBy(element, CreatedByElement, header.CreatedBy)
	encodeModifiedBy(element, UpdatedByElement, header.UpdatedBy)
}

func encodeModifiedBy(header *etree.Element, tag string, modified *config.ModifiedBy) {
	if modified == nil {
		return
	}

	audit := header.CreateElement(tag)
	audit.CreateAttr("user", modified.User)
	audit.CreateAttr("timestamp", config.FormatTimestamp(modified.Timestamp))
}

// encodeNode appends the element for n to parent.
func encodeNode(parent *etree.Element, n config.Node) error {
	switch node := n.(type) {
	case *config.ValueNode:
		element := parent.CreateElement(node.Name())
		if node.Encrypted() {
			element.CreateAttr(document.TypeKey, document.TypeEncrypted)
		}

		element.SetText(node.Value())
	case *config.PathNode:
		return encodePath(parent.CreateElement(node.Name()), node)
	case *config.KeyValueNode:
		element := parent.CreateElement(node.Name())

		for _, key := range node.Keys() {
			err := encodeNode(element, node.GetValue(key))
			if err != nil {
				return err
			}
		}
	case *config.ListValueNode:
		element := parent.CreateElement(node.Name())
		element.CreateAttr(document.TypeKey, document.TypeList)

		for _, value := range node.Values() {
			err := encodeNode(element, value)
			if err != nil {
				return err
			}
		}
	case *config.ElementListNode:
		element := parent.CreateElement(node.Name())
		element.CreateAttr(document.TypeKey, document.TypeList)

		for _, item := range node.Elements() {
			err := encodePath(element.CreateElement(item.Name()), item)
			if err != nil {
				return err
			}
		}
	case *config.IncludeNode:
		element := parent.CreateElement(node.Name())
		element.CreateAttr(document.TypeKey, document.TypeInclude)
		element.CreateAttr(document.LocationKey, node.Location())
	case *config.SearchResult:
		element := parent.CreateElement(config.SearchResultName)

		for _, result := range node.Results() {
			err := encodeNode(element, result)
			if err != nil {
				return err
			}
		}
	case *config.ResourceNode:
		element := parent.CreateElement(node.Name())
		element.CreateAttr(document.TypeKey, document.TypeResource)
		element.CreateAttr(document.KindKey, node.Kind().String())

		if node.Location() != nil {
			element.CreateAttr(document.LocationKey, node.Location().String())
		}

		element.CreateAttr(document.ResourceNameKey, node.ResourceName())
	default:
		return fmt.Errorf("%w: %T", config.ErrUnsupportedNode, n)
	}

	return nil
}

// encodePath writes the children of node into element; the attributes node becomes XML attributes.
func encodePath(element *etree.Element, node *config.PathNode) error {
	attributes := node.GetAttributes()
	if attributes != nil {
		for _, key := range attributes.Keys() {
			element.CreateAttr(key, attributes.GetValue(key).Value())
		}
	}

	for _, child := range node.Children() {
		if attributes != nil && child == config.Node(attributes) {
			continue
		}

		err := encodeNode(element, child)
		if err != nil {
			return err
		}
	}

	return nil
}
