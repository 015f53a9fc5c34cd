package file

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathIsDirectory is returned when the path provided to the Fetcher points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Scheme is the URI scheme accepted in front of a path.
const Scheme = "file"

// Fetcher implements config.DataFetcher and config.Locator for configuration documents on disk.
// It reads the document at construction time and caches the contents.
type Fetcher struct {
	filepath string
	data     []byte
}

// NewFetcher returns a constructor function that creates a new file-based Fetcher
// for fpath, which may be a plain path or a file:// URI. The file is read at
// construction time and cached.
// Returns an error if the file cannot be read or if the path points to a directory.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(Path(fpath))

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{
			filepath: cleanPath,
			data:     data,
		}, nil
	}
}

// Path strips a file:// prefix from location. Other values are returned unchanged.
func Path(location string) string {
	if !strings.HasPrefix(location, Scheme+"://") {
		return location
	}

	parsed, err := url.Parse(location)
	if err != nil {
		return strings.TrimPrefix(location, Scheme+"://")
	}

	return parsed.Path
}

// Fetch returns a copy of the cached document read at construction time.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}

// Location returns the cleaned path the document was read from.
func (f *Fetcher) Location() string {
	return f.filepath
}
