package listener

import "time"

// Option defines a function type for configuring an HTTP listener.
type Option func(*Config)

// WithAddress sets the address for the HTTP listener.
func WithAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.Address = addr
	}
}

// WithPrefix sets the route prefix of the inspector endpoints.
func WithPrefix(prefix string) Option {
	return func(cfg *Config) {
		cfg.Prefix = prefix
	}
}

// WithRequestTimeout bounds the time spent answering one request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.RequestTimeout = timeout
	}
}

// WithMaxRequestSize caps the request body size in bytes.
func WithMaxRequestSize(bytes int64) Option {
	return func(cfg *Config) {
		cfg.MaxRequestSize = bytes
	}
}

// WithRateLimit limits the listener to requestsPerSecond with the given burst.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(cfg *Config) {
		cfg.RateLimit = requestsPerSecond
		cfg.Burst = burst
	}
}

// WithAllowedOrigins lets browser pages on the given hostnames read responses.
func WithAllowedOrigins(origins ...string) Option {
	return func(cfg *Config) {
		cfg.AllowedOrigins = origins
	}
}
