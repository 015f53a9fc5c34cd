package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ReadHeaderTimeout is the default timeout for reading request headers.
const ReadHeaderTimeout = 10 * time.Second

// Describer is implemented by handlers that can say what they serve. A Server adds the
// attributes to its start and stop log entries.
type Describer interface {
	Describe() []slog.Attr
}

// Server manages an HTTP server lifecycle.
type Server struct {
	name       string
	config     Config
	server     *http.Server
	listener   net.Listener
	logger     *slog.Logger
	onServeErr func()
}

// NewServer creates a new Server with the given name, handler, and config.
// It sets config defaults, validates the config, and creates the underlying http.Server.
// The onServeErr callback, if non-nil, is called when the background Serve goroutine encounters a fatal error.
func NewServer(name string, handler http.Handler, cfg Config, onServeErr func()) (*Server, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	cfg.SetDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	logger := serverLogger(slog.Default(), name, handler)

	return &Server{
		name:   name,
		config: cfg,
		server: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		listener:   nil,
		logger:     logger,
		onServeErr: onServeErr,
	}, nil
}

// serverLogger tags base with the listener name and whatever handler describes.
func serverLogger(base *slog.Logger, name string, handler http.Handler) *slog.Logger {
	logger := base.With(slog.String("name", name))

	describer, ok := handler.(Describer)
	if !ok {
		return logger
	}

	attrs := describer.Describe()
	args := make([]any, 0, len(attrs))

	for _, attr := range attrs {
		args = append(args, attr)
	}

	return logger.With(args...)
}

// Start begins listening on TCP and serves HTTP requests in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	listenCfg := net.ListenConfig{} //nolint:exhaustruct // zero-value defaults are fine

	listener, err := listenCfg.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		s.logger.Error("failed to listen",
			slog.String("address", s.server.Addr),
			slog.String("error", err.Error()),
		)

		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.listener = listener

	s.logger.Info("starting HTTP listener",
		slog.String("address", listener.Addr().String()),
		slog.String("prefix", s.config.Prefix),
		slog.Duration("request_timeout", s.config.RequestTimeout),
		slog.Float64("rate_limit", s.config.RateLimit),
	)

	go func() {
		serveErr := s.server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("HTTP listener error", slog.String("error", serveErr.Error()))

			if s.onServeErr != nil {
				s.onServeErr()
			}
		}
	}()

	return nil
}

// Addr returns the bound address once started, or the configured address before.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}

	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP listener", slog.String("address", s.Addr()))

	err := s.server.Shutdown(ctx)
	if err != nil {
		s.logger.Error("shutdown failed", slog.String("error", err.Error()))

		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}
