package store

import (
	"context"
	"errors"
)

// Filter narrows a table operation to rows whose columns equal the given
// values.
type Filter map[string]string

var (
	// ErrNotFound means the filter matched no rows. Lookups treat this as
	// "absent", not as a hard failure.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means an insert violated a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable means the remote store could not be reached or did not
	// answer in time.
	ErrUnavailable = errors.New("remote store unavailable")
)

// Client is a thin client for the remote table store. Collections map to
// tables; payloads and results are marshalled through JSON.
type Client interface {
	Create(ctx context.Context, collection string, payload any, out any) error
	ReadOne(ctx context.Context, collection string, filter Filter, out any) error
	ReadAll(ctx context.Context, collection string, filter Filter, out any) error
	Update(ctx context.Context, collection string, filter Filter, payload any, out any) error
	Delete(ctx context.Context, collection string, filter Filter) error
}
