// Package filex holds file helpers for the client: preparing the directory of
// the local session database and loading proof screenshots for upload.
package filex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize caps screenshot uploads.
const MaxImageSize = 10 << 20

var (
	ErrNotAnImage    = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image is too large")
)

// EnsureParentDir creates the directory that will hold path. A bare file name
// or an in-memory DSN needs nothing.
func EnsureParentDir(path string) error {
	if path == "" || strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// Image is a screenshot loaded into memory together with its sniffed type.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadImage loads an image file, rejecting anything over MaxImageSize or
// whose content does not sniff as image/*.
func ReadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, ct)
	}

	return &Image{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}
