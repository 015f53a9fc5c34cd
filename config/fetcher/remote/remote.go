package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrUnsupportedScheme is returned for locations that are not http or https URLs.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Default retry policy.
const (
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 200 * time.Millisecond
	DefaultTimeout         = 30 * time.Second
)

// Options holds the fetcher configuration.
type Options struct {
	Client          *http.Client
	Context         context.Context //nolint:containedctx // construction runs inside the constructor closure
	MaxRetries      uint64
	InitialInterval time.Duration
	Timeout         time.Duration
	Header          http.Header
}

// Option is a functional option for NewFetcher.
type Option func(*Options)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(o *Options) {
		o.Client = client
	}
}

// WithContext sets the parent context of the download.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(retries uint64) Option {
	return func(o *Options) {
		o.MaxRetries = retries
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.InitialInterval = interval
	}
}

// WithTimeout bounds the whole download, retries included.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithHeader adds a request header, e.g. an Authorization token.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		o.Header.Add(key, value)
	}
}

// NewOptions returns the default options with opts applied.
func NewOptions(opts ...Option) *Options {
	options := &Options{
		Client:          http.DefaultClient,
		Context:         context.Background(),
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: DefaultInitialInterval,
		Timeout:         DefaultTimeout,
		Header:          make(http.Header),
	}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// Fetcher implements config.DataFetcher and config.Locator for documents served over HTTP.
type Fetcher struct {
	location string
	data     []byte
}

// NewFetcher returns a constructor that downloads location and caches the response body.
func NewFetcher(location string, opts ...Option) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		data, err := Download(location, NewOptions(opts...))
		if err != nil {
			return nil, err
		}

		return &Fetcher{
			location: location,
			data:     data,
		}, nil
	}
}

// Fetch returns a copy of the downloaded document.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}

// Location returns the URL the document was downloaded from.
func (f *Fetcher) Location() string {
	return f.location
}

// Download performs a GET on location with the retry policy in options.
func Download(location string, options *Options) ([]byte, error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing location %q: %w", location, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, location)
	}

	ctx := options.Context
	if options.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(options.InitialInterval)),
			options.MaxRetries,
		),
		ctx,
	)

	operation := func() ([]byte, error) {
		return get(ctx, options, parsed.String())
	}

	notify := func(err error, next time.Duration) {
		slog.Debug("retrying download",
			slog.String("location", location),
			slog.Duration("next", next),
			slog.String("error", err.Error()),
		)
	}

	data, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", location, err)
	}

	return data, nil
}

func get(ctx context.Context, options *Options, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	for key, values := range options.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := options.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		if !retryable(resp.StatusCode) {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return data, nil
}

func retryable(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
