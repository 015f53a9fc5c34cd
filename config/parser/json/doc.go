// Package json provides a JSON parser and writer for configuration documents.
//
// Documents are decoded with github.com/ohler55/ojg and converted to a configuration tree
// by config/document. Encode writes the same shape back with github.com/goccy/go-json.
//
// Usage:
//
//	parser := json.NewParser(json.WithIncludeLoader(loader))
//	cfg, err := config.Load(parser, fetcher)
//
// A configuration embedded in a larger JSON file is selected with a JSONPath:
//
//	parser := json.NewParser(json.WithPath("$.services.billing"))
package json
