// Package remote provides an HTTP DataFetcher for the config package.
//
// Like the file fetcher, the document is downloaded once at construction time and
// cached. Transient failures (network errors, 408, 429 and 5xx responses) are retried
// with exponential backoff; any other non-2xx status fails immediately.
//
//	fetcher, err := remote.NewFetcher("https://config.example.com/billing.json",
//	    remote.WithMaxRetries(5),
//	    remote.WithTimeout(10*time.Second),
//	)()
package remote
