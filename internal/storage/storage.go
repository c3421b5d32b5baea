// Package storage archives generated reports in an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape their prefix.
var ErrInvalidKey = errors.New("invalid object key")

// Object is one archived file. Size is the exact length of Body, or -1 when unknown.
type Object struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key       string
	Size      int64
	ETag      string
	VersionID string
	StoredAt  time.Time
}

// Storage is the object store the report archive writes to.
type Storage interface {
	// Put uploads obj, streaming its body.
	Put(ctx context.Context, obj Object) (ObjectInfo, error)
	// Remove deletes the object under key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// PresignGet returns a link that downloads key as an attachment until expiry elapses.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ValidateKey reports whether key is a clean relative object path.
func ValidateKey(key string) error {
	switch {
	case key == "", strings.HasPrefix(key, "/"), path.Clean(key) != key:
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
