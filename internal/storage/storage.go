// Package storage keeps uploaded car images in an object store and hands
// out the URLs that listings reference.
package storage

import (
	"context"

	"github.com/google/uuid"
)

// KeyPrefix is the folder all car images are stored under.
const KeyPrefix = "cars/"

// Storage stores image objects by key.
type Storage interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object under key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
	// Key returns the key of an object from its public URL, and false if
	// the URL does not point into this store.
	Key(url string) (string, bool)
}

// NewKey returns a fresh object key with the given extension.
func NewKey(ext string) string {
	return KeyPrefix + uuid.NewString() + ext
}
