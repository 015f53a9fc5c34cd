package listener

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/0xalexb/hjarta-config/config"
	"go.uber.org/fx"
)

// NewModule creates an Fx module for a named HTTP listener.
// The name is used as both the module name and the DI named tag for http.Handler and Config.
// If any options are passed, the module supplies Config to DI from those options.
// Otherwise, Config must be provided externally (e.g., via bind.Provider).
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	return newModule(name, opts)
}

// NewInspectorModule creates a named listener whose handler is an Inspector over the
// *config.Configuration found in the container.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewInspectorModule(name string, opts ...Option) fx.Option {
	tag := fmt.Sprintf(`name:"%s"`, name)

	return newModule(name, opts, fx.Provide(
		fx.Annotate(
			func(cfg *config.Configuration, listenerCfg Config) (http.Handler, error) {
				return NewInspector(cfg, listenerCfg)
			},
			fx.ParamTags("", tag),
			fx.ResultTags(tag),
		),
	))
}

//nolint:ireturn // fx.Option is the standard return type for Fx modules
func newModule(name string, opts []Option, extra ...fx.Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var cfg Config

	for _, apply := range opts {
		apply(&cfg)
	}

	tag := fmt.Sprintf(`name:"%s"`, name)
	moduleOpts := extra

	if len(opts) > 0 {
		moduleOpts = append(moduleOpts, fx.Supply(
			fx.Annotate(cfg, fx.ResultTags(tag)),
		))
	}

	moduleOpts = append(moduleOpts, fx.Invoke(
		fx.Annotate(
			func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, handler http.Handler, listenerCfg Config) error {
				srv, err := NewServer(name, handler, listenerCfg, func() {
					shutdownErr := shutdowner.Shutdown()
					if shutdownErr != nil {
						slog.Error("failed to trigger shutdown", "name", name, "error", shutdownErr)
					}
				})
				if err != nil {
					return err
				}

				lifecycle.Append(fx.Hook{
					OnStart: srv.Start,
					OnStop:  srv.Stop,
				})

				return nil
			},
			fx.ParamTags("", "", tag, tag),
		),
	))

	return fx.Module(name, moduleOpts...)
}
