// Package content reads the offline content bank: activity and reaction
// JSON files plus the image files they reference.
//
// The bank lives either in a local directory (FSStore) or in an S3 or
// S3-compatible bucket (S3Store). Names are slash-separated and relative to
// the store root.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pithecene-io/seedbank/types"
)

// Backend names accepted by ParseBackend.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Store opens named objects of the content bank.
type Store interface {
	// Open returns a reader for name. A missing object yields an error
	// matching fs.ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Sub returns a store rooted at dir inside this one.
	Sub(dir string) Store
	// String describes the store location for logs.
	String() string
}

// ParseBackend validates a backend name. Empty selects the filesystem.
func ParseBackend(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", BackendFS:
		return BackendFS, nil
	case BackendS3:
		return BackendS3, nil
	default:
		return "", types.ConfigError("unknown content backend %q (want fs or s3)", s)
	}
}

// cleanName normalizes a store-relative name. Leading slashes are dropped and
// parent references are rejected so a record cannot reach outside the root.
func cleanName(name string) (string, error) {
	slashed := filepath.ToSlash(name)
	for _, elem := range strings.Split(slashed, "/") {
		if elem == ".." {
			return "", fmt.Errorf("%w: object name %q escapes the content root", types.ErrMalformedInput, name)
		}
	}
	clean := strings.TrimPrefix(path.Clean("/"+slashed), "/")
	if clean == "" {
		return "", fmt.Errorf("%w: empty object name", types.ErrMalformedInput)
	}
	return clean, nil
}

// FSStore is a Store over a local directory.
type FSStore struct {
	root string
}

// NewFSStore creates a store rooted at dir. The directory must exist.
func NewFSStore(dir string) (*FSStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.ConfigError("content directory %q does not exist", dir)
		}
		return nil, types.ConfigError("content directory %q: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, types.ConfigError("content path %q is not a directory", dir)
	}
	return &FSStore{root: dir}, nil
}

// Open opens name relative to the store root.
func (s *FSStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", clean, err)
	}
	return f, nil
}

// Sub returns a store rooted at dir inside s. The directory is not checked.
func (s *FSStore) Sub(dir string) Store {
	return &FSStore{root: filepath.Join(s.root, filepath.FromSlash(dir))}
}

func (s *FSStore) String() string { return s.root }

var _ Store = (*FSStore)(nil)
