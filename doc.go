// Package hconfig loads hierarchical configuration documents and wires them into Fx
// applications.
//
// Load and LoadFile pick a parser from the document extension (xml, json, yaml or yml),
// fetch the document from a path, a file:// URI or an http(s) URL, and resolve include
// directives relative to the including document. An include chain that returns to one
// of its own documents fails with config.ErrIncludeCycle.
//
//	cfg, err := hconfig.LoadFile("billing.xml")
//	if err != nil {
//		return err
//	}
//
//	host := cfg.Find("/billing/server/host")
//
// NewApp builds an Fx application with slog logging. WithConfiguration supplies the
// loaded *config.Configuration to the container, config/bind turns subtrees into typed
// structs, and WithInspector serves search path queries over HTTP.
package hconfig
