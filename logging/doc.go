// Package logging builds the log/slog loggers used across hconfig. Output is JSON by
// default or logfmt-style text, and integrates with Uber's Fx through the root package.
package logging
