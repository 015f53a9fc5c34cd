// Package middleware provides the HTTP middleware that wraps the configuration inspector.
//
// Every constructor returns a func(http.Handler) http.Handler so the listener can stack
// them in order. Logging and Recovery take the logger to write to; the request id set by
// RequestID is available to inner handlers through GetRequestID.
package middleware
