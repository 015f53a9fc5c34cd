// Package file provides a file-based DataFetcher for the config package.
//
// The document is read at construction time and cached, so every Fetch returns the
// same bytes for the lifetime of the fetcher. Locations may be plain paths or
// file:// URIs. The fetcher also implements config.Locator, which lets config.Load
// record where the configuration came from and resolve relative includes.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("/etc/billing/config.xml")()
//	if err != nil {
//	    // not found, permission denied, path is a directory
//	}
//	cfg, err := config.Load(xml.NewParser(), fetcher)
//
// Use errors.Is(err, file.ErrPathIsDirectory) to detect directory paths.
package file
