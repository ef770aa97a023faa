package orders

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no live record has the given id.
var ErrNotFound = errors.New("order not found")

// Store is the record-store contract. Put is an unconditional insert keyed by
// OrderID. Get must be strongly consistent with the latest Put for that key;
// QueryByOwner goes through the owner secondary index and may lag a concurrent
// Put. Implementations age out records whose TTL has elapsed on their own
// best-effort schedule.
type Store interface {
	Put(ctx context.Context, o Order) error
	Get(ctx context.Context, orderID string) (Order, error)
	QueryByOwner(ctx context.Context, userID string) ([]Order, error)
}
