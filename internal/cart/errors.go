package cart

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity rejects add requests with a non-positive quantity before
// any state is touched.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// StockExceededError rejects an operation whose resulting quantity would pass
// the last-known available stock. Raised before any mutation, so the snapshot
// is untouched when callers see it.
type StockExceededError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("cannot set %q (product %d) to %d: only %d in stock",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// OperationFailedError means the optimistic local write succeeded but the
// matching remote call failed. For every operation except Clear the local
// state has already been rolled back when callers see this.
type OperationFailedError struct {
	Op  string
	Err error
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("cart %s failed: %v", e.Op, e.Err)
}

func (e *OperationFailedError) Unwrap() error {
	return e.Err
}
