package cli

import (
	"fmt"
	"maps"
	"slices"

	hconfig "github.com/0xalexb/hjarta-config"
	"github.com/0xalexb/hjarta-config/config/resource"
	"github.com/spf13/cobra"
)

func newResourcesCommand() *cobra.Command {
	var (
		cacheDir    string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "resources FILE",
		Short: "Download every resource a document references",
		Long: `Download or extract every resource node in the document, includes included,
and print one line per resource: its search path and its local path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := hconfig.Load(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck // names the document
			}

			opts := []resource.Option{resource.WithConcurrency(concurrency)}
			if cacheDir != "" {
				opts = append(opts, resource.WithCacheDir(cacheDir))
			}

			downloader, err := resource.NewDownloader(opts...)
			if err != nil {
				return err //nolint:wrapcheck // already descriptive
			}

			paths, err := downloader.MaterializeAll(cmd.Context(), cfg.Root())
			if err != nil {
				return err //nolint:wrapcheck // already names the resource
			}

			for _, key := range slices.Sorted(maps.Keys(paths)) {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key, paths[key])
				if err != nil {
					return err //nolint:wrapcheck // write to stdout
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for downloaded resources")
	cmd.Flags().IntVar(&concurrency, "concurrency", resource.DefaultConcurrency, "parallel downloads")

	return cmd
}
