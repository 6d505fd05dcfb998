package catalog

import (
	"context"
	"errors"
)

var ErrStoreFull = errors.New("store capacity reached")

// Store is the storage capability the Service depends on.
//
// Add never fails loudly: a product that is already present, or that could
// not be inserted, is reported as false. FindAll returns a copy of the
// contents, each product once.
type Store interface {
	Add(ctx context.Context, p Product) bool
	FindAll(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}
