package config

import (
	"fmt"
	"log/slog"
)

// Parser builds a configuration tree from raw document data.
//
// Implementations set target.Header and target.SetRoot and create every node in the
// Loading state; Load validates and post-loads the result. See config/parser/xml,
// config/parser/json and config/parser/yaml.
type Parser interface {
	Parse(data []byte, target *Configuration) error
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Locator is implemented by fetchers that know where their data comes from. The
// location is recorded on the loaded configuration and used to resolve includes.
type Locator interface {
	Location() string
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Options configures Load.
type Options struct {
	Settings *Settings
	Location string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithSettings overrides the settings of the loaded configuration.
func WithSettings(settings *Settings) Option {
	return func(o *Options) {
		o.Settings = settings
	}
}

// WithLocation records location on the loaded configuration when the fetcher does not report one.
func WithLocation(location string) Option {
	return func(o *Options) {
		o.Location = location
	}
}

// Load reads data with fetcher, parses it into a new Configuration, validates it and
// moves it to Synced. A configuration that fails validation is returned in the Error
// state together with the error.
func Load(parser Parser, fetcher DataFetcher, opts ...Option) (*Configuration, error) {
	options := &Options{Settings: nil, Location: ""}
	for _, opt := range opts {
		opt(options)
	}

	if locator, ok := fetcher.(Locator); ok && options.Location == "" {
		options.Location = locator.Location()
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("reading data error: %w", ErrEmptyData)
	}

	settings := options.Settings
	if settings == nil {
		settings = &Settings{} //nolint:exhaustruct // filled by SetDefaults
	}

	if settings.SetDefaults() {
		slog.Debug("defaults applied", slog.String("location", options.Location))
	}

	err = settings.Validate()
	if err != nil {
		return nil, fmt.Errorf("settings error: %w", err)
	}

	cfg := New(settings)
	cfg.SetLocation(options.Location)

	err = parser.Parse(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		cfg.SetState(StateError)

		return cfg, fmt.Errorf("validating error: %w", err)
	}

	err = cfg.PostLoad()
	if err != nil {
		return cfg, fmt.Errorf("post load error: %w", err)
	}

	slog.Debug("configuration loaded",
		slog.String("location", options.Location),
		slog.String("name", cfg.Header.Name),
		slog.String("version", cfg.Header.Version),
	)

	return cfg, nil
}
