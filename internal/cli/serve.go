package cli

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/listener"
	"github.com/spf13/cobra"
)

// InspectorName is the listener name the serve command registers.
const InspectorName = "inspector"

func newServeCommand(flags *globalFlags) *cobra.Command {
	var (
		address   string
		prefix    string
		timeout   time.Duration
		rateLimit float64
		burst     int
		origins   []string
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve search path queries over HTTP",
		Long: `Load FILE and answer GET <prefix>?path=/a/b&format=json queries until interrupted.
<prefix>healthz reports the state of the loaded configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := hconfig.NewApp(
				hconfig.WithLogLevel(flags.logLevel),
				hconfig.WithLogFormat(flags.logFormat),
				hconfig.WithConfiguration(args[0]),
				hconfig.WithInspector(InspectorName,
					listener.WithAddress(address),
					listener.WithPrefix(prefix),
					listener.WithRequestTimeout(timeout),
					listener.WithRateLimit(rateLimit, burst),
					listener.WithAllowedOrigins(origins...),
				),
			)

			err := app.Start()
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			select {
			case <-ctx.Done():
			case <-app.Done():
			}

			slog.Info("shutting down", slog.String("document", args[0]))

			return app.Stop() //nolint:wrapcheck // already descriptive
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", listener.DefaultAddress, "listen address")
	cmd.Flags().StringVar(&prefix, "prefix", listener.DefaultPrefix, "URL prefix of the query and health routes")
	cmd.Flags().DurationVar(&timeout, "timeout", listener.DefaultRequestTimeout, "time limit for answering one request")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "requests per second, 0 for no limit")
	cmd.Flags().IntVar(&burst, "burst", 0, "requests allowed at once with --rate-limit, derived from the rate when 0")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "hostname whose browser pages may read responses, repeatable")

	return cmd
}
