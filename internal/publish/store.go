package publish

import (
	"context"
	stderrors "errors"
	"io"
)

// ErrNotFound is returned when a key does not exist in a store.
var ErrNotFound = stderrors.New("publish: page not found")

// Store is the interface for publish targets.
type Store interface {
	// Put writes a page under key, replacing any previous content.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// Delete removes the page under key.
	Delete(ctx context.Context, key string) error

	// List returns every key in the store, sorted.
	List(ctx context.Context) ([]string, error)
}
