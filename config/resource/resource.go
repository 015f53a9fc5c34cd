package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/0xalexb/hjarta-config/config"
	"github.com/0xalexb/hjarta-config/config/fetcher/remote"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnsupportedResource is returned for kind and scheme combinations that cannot be fetched.
	ErrUnsupportedResource = errors.New("unsupported resource")
	// ErrUnsafePath is returned when a zip entry would be written outside the target directory.
	ErrUnsafePath = errors.New("archive entry escapes target directory")
	// ErrArchiveTooLarge is returned when extraction exceeds the configured size limit.
	ErrArchiveTooLarge = errors.New("archive exceeds size limit")
)

// Defaults.
const (
	DefaultConcurrency    = 4
	DefaultMaxExtractSize = 1 << 30
	cacheDirName          = "hconfig-resources"
)

// Options configures a Downloader.
type Options struct {
	CacheDir       string
	Concurrency    int
	MaxExtractSize int64
	Remote         []remote.Option
}

// Option is a functional option for NewDownloader.
type Option func(*Options)

// WithCacheDir sets the directory resources are materialized into.
func WithCacheDir(dir string) Option {
	return func(o *Options) {
		o.CacheDir = dir
	}
}

// WithConcurrency bounds the parallel downloads of MaterializeAll. Values below one
// select DefaultConcurrency.
func WithConcurrency(concurrency int) Option {
	return func(o *Options) {
		o.Concurrency = concurrency
	}
}

// WithMaxExtractSize bounds the total uncompressed size of one archive.
func WithMaxExtractSize(size int64) Option {
	return func(o *Options) {
		o.MaxExtractSize = size
	}
}

// WithRemoteOptions configures HTTP downloads.
func WithRemoteOptions(opts ...remote.Option) Option {
	return func(o *Options) {
		o.Remote = append(o.Remote, opts...)
	}
}

// Downloader fetches resources into a cache directory.
type Downloader struct {
	options *Options
}

// NewDownloader creates the cache directory and returns a downloader.
func NewDownloader(opts ...Option) (*Downloader, error) {
	options := &Options{
		CacheDir:       filepath.Join(os.TempDir(), cacheDirName),
		Concurrency:    DefaultConcurrency,
		MaxExtractSize: DefaultMaxExtractSize,
		Remote:         nil,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Concurrency < 1 {
		options.Concurrency = DefaultConcurrency
	}

	err := os.MkdirAll(options.CacheDir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("creating cache directory %q: %w", options.CacheDir, err)
	}

	return &Downloader{options: options}, nil
}

// CacheDir returns the directory a resource is materialized into.
func (d *Downloader) CacheDir(r *config.ResourceNode) string {
	sum := xxhash.Sum64String(r.Location().String())

	return filepath.Join(d.options.CacheDir, strconv.FormatUint(sum, 16))
}

// Fetch materializes r unconditionally and returns its local path. It has the
// config.FetchFunc signature; use Materialize to download at most once.
func (d *Downloader) Fetch(ctx context.Context, r *config.ResourceNode) (string, error) {
	location := r.Location()
	if location == nil {
		return "", fmt.Errorf("%w: Location", config.ErrPropertyMissing)
	}

	logger := slog.With(slog.String("resource", r.ResourceName()), slog.String("location", location.String()))

	var (
		localPath string
		err       error
	)

	switch location.Scheme {
	case "", "file":
		localPath, err = d.fetchLocal(r, location.Path)
	case "http", "https":
		localPath, err = d.fetchRemote(ctx, r, location.String())
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedResource, location.Scheme)
	}

	if err != nil {
		return "", err
	}

	logger.Debug("resource materialized", slog.String("path", localPath))

	return localPath, nil
}

func (d *Downloader) fetchLocal(r *config.ResourceNode, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", config.ErrResourceMissing, err)
	}

	switch r.Kind() {
	case config.ResourceFile, config.ResourceDirectory:
		if (r.Kind() == config.ResourceDirectory) != info.IsDir() {
			return "", fmt.Errorf("%w: %s is not a %s", config.ErrResourceMissing, path, r.Kind())
		}

		return path, nil
	case config.ResourceZip:
		target := d.CacheDir(r)

		err = extractFile(path, target, d.options.MaxExtractSize)
		if err != nil {
			return "", err
		}

		return target, nil
	default:
		return "", fmt.Errorf("%w: kind %s", ErrUnsupportedResource, r.Kind())
	}
}

func (d *Downloader) fetchRemote(ctx context.Context, r *config.ResourceNode, location string) (string, error) {
	if r.Kind() == config.ResourceDirectory {
		return "", fmt.Errorf("%w: directory over %s", ErrUnsupportedResource, r.Location().Scheme)
	}

	opts := append([]remote.Option{remote.WithContext(ctx)}, d.options.Remote...)

	data, err := remote.Download(location, remote.NewOptions(opts...))
	if err != nil {
		return "", fmt.Errorf("downloading resource: %w", err)
	}

	target := d.CacheDir(r)

	err = os.MkdirAll(target, 0o750)
	if err != nil {
		return "", fmt.Errorf("creating %q: %w", target, err)
	}

	if r.Kind() == config.ResourceZip {
		err = extractBytes(data, target, d.options.MaxExtractSize)
		if err != nil {
			return "", err
		}

		return target, nil
	}

	name := filepath.Base(r.ResourceName())
	path := filepath.Join(target, name)

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return "", fmt.Errorf("writing %q: %w", path, err)
	}

	return path, nil
}

// Materialize downloads r once and returns its local path.
func (d *Downloader) Materialize(ctx context.Context, r *config.ResourceNode) (string, error) {
	return r.EnsureDownloaded(ctx, d.Fetch) //nolint:wrapcheck // already names the resource
}

// MaterializeAll downloads every resource below root in parallel. The result maps each
// resource's path (config.PathOf) to its local path.
func (d *Downloader) MaterializeAll(ctx context.Context, root config.Node) (map[string]string, error) {
	var resources []*config.ResourceNode

	config.Walk(root, func(n config.Node) bool {
		if r, ok := n.(*config.ResourceNode); ok {
			resources = append(resources, r)
		}

		return true
	})

	var (
		mu     sync.Mutex
		result = make(map[string]string, len(resources))
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.options.Concurrency)

	for _, r := range resources {
		group.Go(func() error {
			localPath, err := d.Materialize(groupCtx, r)
			if err != nil {
				return err
			}

			mu.Lock()
			result[config.PathOf(r)] = localPath
			mu.Unlock()

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("materializing resources: %w", err)
	}

	return result, nil
}
