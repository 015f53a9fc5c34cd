package hconfig_test

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/bind"
	"go.uber.org/fx"
)

// ServerConfig is bound from the billing/server subtree.
type ServerConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// SetDefaults fills the timeout when the document leaves it out.
func (c *ServerConfig) SetDefaults() bool {
	if c.Timeout != 0 {
		return false
	}

	c.Timeout = 30 * time.Second

	return true
}

// Validate rejects ports outside the TCP range.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

// ServerService depends on the bound configuration.
type ServerService struct {
	Config *ServerConfig
}

// Address returns host:port.
func (s *ServerService) Address() string {
	return net.JoinHostPort(s.Config.Host, strconv.Itoa(s.Config.Port))
}

// Example_appWithConfiguration loads a document with an include and property
// interpolation, binds a subtree to a struct and injects it into a service.
func Example_appWithConfiguration() {
	binder := bind.NewBinder(
		bind.Field[ServerConfig]{
			Path:     "/billing/server/host",
			Required: true,
			Decode:   bind.String(func(c *ServerConfig, v string) { c.Host = v }),
		},
		bind.Field[ServerConfig]{
			Path:     "/billing/server/port",
			Required: true,
			Decode:   bind.Int(func(c *ServerConfig, v int) { c.Port = v }),
		},
		bind.Field[ServerConfig]{
			Path:     "/billing/server/timeout",
			Required: false,
			Decode:   bind.Duration(func(c *ServerConfig, v time.Duration) { c.Timeout = v }),
		},
	)

	var (
		service *ServerService
		cfg     *config.Configuration
	)

	app := hconfig.NewApp(
		hconfig.WithLogLevel("error"),
		hconfig.WithConfiguration("testdata/billing.xml"),
		hconfig.WithModules(
			fx.Provide(bind.Provider(binder)),
			fx.Provide(func(c *ServerConfig) *ServerService {
				return &ServerService{Config: c}
			}),
			fx.Invoke(func(s *ServerService, c *config.Configuration) {
				service = s
				cfg = c
			}),
		),
	)

	err := app.Start()
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop() }()

	fmt.Printf("Server address: %s\n", service.Address())
	fmt.Printf("Timeout: %s\n", service.Config.Timeout)
	fmt.Printf("Shared endpoint: %s\n", cfg.Find("/billing/shared/endpoint").(*config.ValueNode).Value())
	// Output:
	// Server address: api.example.org:9000
	// Timeout: 45s
	// Shared endpoint: https://example.org/shared
}

// ExampleEncodeNode renders one subtree of a loaded document.
func ExampleEncodeNode() {
	cfg, err := hconfig.LoadFile("testdata/billing.json")
	if err != nil {
		fmt.Println(err)

		return
	}

	data, err := hconfig.EncodeNode(cfg.Find("/billing/server"), hconfig.FormatJSON)
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(string(data))
	// Output:
	// {
	//   "host": "api.example.org",
	//   "port": "9000",
	//   "timeout": "45s"
	// }
}
