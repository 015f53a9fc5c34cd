// Package listener serves configurations over HTTP as an Fx module.
package listener

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/0xalexb/hjarta-config/config/bind"
)

// Defaults for the HTTP listener.
const (
	DefaultAddress        = ":8080"
	DefaultPrefix         = "/"
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRequestSize = 64 << 10
)

// ErrEmptyAddress is returned when the address is empty.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrInvalidPrefix is returned when the route prefix does not start and end with "/".
var ErrInvalidPrefix = errors.New("prefix must start and end with /")

// ErrInvalidLimit is returned when a timeout, size or rate limit is negative.
var ErrInvalidLimit = errors.New("limits must not be negative")

// ErrListenFailed is returned when the server fails to listen on the configured address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server fails to shut down gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// ErrEmptyName is returned when the listener name is empty.
var ErrEmptyName = errors.New("listener name must not be empty")

// ErrNilHandler is returned when a nil http.Handler is provided.
var ErrNilHandler = errors.New("handler must not be nil")

// ErrNilConfiguration is returned when the inspector is created without a configuration.
var ErrNilConfiguration = errors.New("configuration must not be nil")

// Config holds the configuration for an HTTP listener.
type Config struct {
	Address string
	// Prefix is the route prefix of the inspector endpoints.
	Prefix string
	// RequestTimeout bounds the time spent answering one query.
	RequestTimeout time.Duration
	// MaxRequestSize is the largest request body accepted, in bytes.
	MaxRequestSize int64
	// RateLimit is the sustained number of requests per second. Zero disables limiting.
	RateLimit float64
	// Burst is the number of requests served at once before RateLimit applies.
	Burst int
	// AllowedOrigins are the hostnames whose browser pages may read responses.
	AllowedOrigins []string
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
		changed = true
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
		changed = true
	}

	if c.MaxRequestSize == 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
		changed = true
	}

	if c.RateLimit > 0 && c.Burst == 0 {
		c.Burst = max(1, int(math.Ceil(c.RateLimit)))
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	if c.Prefix != "" && (!strings.HasPrefix(c.Prefix, "/") || !strings.HasSuffix(c.Prefix, "/")) {
		return ErrInvalidPrefix
	}

	if c.RequestTimeout < 0 || c.MaxRequestSize < 0 || c.RateLimit < 0 || c.Burst < 0 {
		return ErrInvalidLimit
	}

	return nil
}

// Binder reads a Config from the values under base, e.g. "/app/listener": address,
// prefix, request_timeout, max_request_size, rate_limit, burst and the origins list.
func Binder(base string) *bind.Binder[Config] {
	base = strings.TrimSuffix(base, "/")

	return bind.NewBinder(
		bind.Field[Config]{Path: base + "/address", Decode: bind.String(func(c *Config, v string) { c.Address = v })},
		bind.Field[Config]{Path: base + "/prefix", Decode: bind.String(func(c *Config, v string) { c.Prefix = v })},
		bind.Field[Config]{
			Path:   base + "/request_timeout",
			Decode: bind.Duration(func(c *Config, v time.Duration) { c.RequestTimeout = v }),
		},
		bind.Field[Config]{
			Path:   base + "/max_request_size",
			Decode: bind.Int64(func(c *Config, v int64) { c.MaxRequestSize = v }),
		},
		bind.Field[Config]{Path: base + "/rate_limit", Decode: bind.Float(func(c *Config, v float64) { c.RateLimit = v })},
		bind.Field[Config]{Path: base + "/burst", Decode: bind.Int(func(c *Config, v int) { c.Burst = v })},
		bind.Field[Config]{
			Path:   base + "/origins",
			Decode: bind.StringSlice(func(c *Config, v []string) { c.AllowedOrigins = v }),
		},
	)
}
