package resource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

func extractFile(path, target string, limit int64) error {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive %q: %w", path, err)
	}
	defer reader.Close()

	return extract(&reader.Reader, target, limit)
}

func extractBytes(data []byte, target string, limit int64) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	return extract(reader, target, limit)
}

func extract(reader *zip.Reader, target string, limit int64) error {
	root := filepath.Clean(target)

	err := os.MkdirAll(root, 0o750)
	if err != nil {
		return fmt.Errorf("creating %q: %w", root, err)
	}

	remaining := limit

	for _, file := range reader.File {
		path := filepath.Join(root, file.Name) //nolint:gosec // checked below
		if path != root && !strings.HasPrefix(path, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, file.Name)
		}

		if file.FileInfo().IsDir() {
			err = os.MkdirAll(path, 0o750)
			if err != nil {
				return fmt.Errorf("creating %q: %w", path, err)
			}

			continue
		}

		written, err := extractEntry(file, path, remaining)
		if err != nil {
			return err
		}

		remaining -= written
	}

	return nil
}

func extractEntry(file *zip.File, path string, remaining int64) (int64, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return 0, fmt.Errorf("creating %q: %w", filepath.Dir(path), err)
	}

	src, err := file.Open()
	if err != nil {
		return 0, fmt.Errorf("opening entry %s: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("creating %q: %w", path, err)
	}

	return writeEntry(dst, src, file.Name, remaining)
}

// writeEntry copies at most remaining bytes of src into dst and closes dst.
func writeEntry(dst io.WriteCloser, src io.Reader, name string, remaining int64) (int64, error) {
	written, err := io.CopyN(dst, src, remaining+1)
	if err != nil && err != io.EOF { //nolint:errorlint // io.CopyN returns io.EOF unwrapped
		_ = dst.Close()

		return written, fmt.Errorf("extracting %s: %w", name, err)
	}

	err = dst.Close()
	if err != nil {
		return written, fmt.Errorf("closing %s: %w", name, err)
	}

	if written > remaining {
		return written, fmt.Errorf("%w: %s", ErrArchiveTooLarge, name)
	}

	return written, nil
}
