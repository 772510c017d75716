// Package storage keeps whole JSON documents under string keys. Every write
// replaces the full document; there are no partial updates.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: document not found")

type DocumentStore interface {
	// Get returns ErrNotFound when nothing was ever written under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}
