// Package document converts between configuration trees and generic decoded documents
// (maps, slices and scalars) as produced by JSON and YAML decoders.
//
// Document shape:
//
//	configuration:
//	  header:
//	    id: 0b6f...
//	    group: billing
//	    application: invoicer
//	    name: production
//	    version: 1.4.0
//	    createdBy: {user: alice, timestamp: 2024-01-02T03:04:05Z}
//	    updatedBy: {user: bob, timestamp: 1704164645000}
//	  root:
//	    "@": {id: main}
//	    timeout: 30
//	    hosts: [a.example.org, b.example.org]
//	    password: {_type: encrypted, value: "c2VjcmV0"}
//	    shared: {_type: include, location: shared.yaml}
//	    bundle: {_type: resource, kind: zip, location: "https://example.org/b.zip", resourceName: b.zip}
//
// Objects become path nodes, scalars value nodes, arrays of scalars value lists and
// arrays of objects element lists. Keys equal to the configured attributes, parameters
// or properties node names become key-value nodes.
package document
