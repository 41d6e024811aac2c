// Package storage keeps the bytes of trail cover photos.
// Two backends exist: Disk for single-host deployments and S3 for any
// S3-compatible object store (AWS S3, MinIO, R2, Spaces).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Storage defines the object operations the cover photo service depends on.
// Keys are slash-separated relative paths such as "covers/3/<uuid>.jpg".
type Storage interface {
	// Save stores r under key, replacing any existing object.
	Save(ctx context.Context, key string, r io.Reader, contentType string) error

	// Open returns a reader for the object at key.
	// Returns domain.ErrNotFound when no such object exists.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// cleanKey rejects keys that are empty, absolute, or climb out of the root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return clean, nil
}
