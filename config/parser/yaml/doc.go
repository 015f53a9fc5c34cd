// Package yaml provides a YAML parser and writer for configuration documents.
//
// This package uses github.com/goccy/go-yaml for decoding and encoding; the decoded
// document is converted to a configuration tree by config/document. A configuration
// embedded in a larger YAML file is selected with a colon-separated path, which is
// converted to goccy/go-yaml PathString format (e.g. "services:billing" becomes
// "$.services.billing").
//
// Usage:
//
//	parser := yaml.NewParser(yaml.WithPath("services:billing"))
//	cfg, err := config.Load(parser, fetcher)
//
// Path Conversion:
//   - Empty path "" -> decode the entire document
//   - Single key "key" -> "$.key"
//   - Nested path "services:billing" -> "$.services.billing"
package yaml
