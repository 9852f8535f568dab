package gateway

import (
	"context"
	"errors"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// CartGateway is the request layer over the backend cart REST API. One method
// per endpoint; callers only ever see succeeded vs failed plus the two
// sentinel conditions below. No retries here.
type CartGateway interface {
	FetchCart(ctx context.Context) (domain.CartSnapshot, error)
	AddItem(ctx context.Context, productID int64, quantity int) error
	SetQuantity(ctx context.Context, productID int64, quantity int) error
	RemoveItem(ctx context.Context, productID int64) error
	RemoveItems(ctx context.Context, productIDs []int64) error
	Clear(ctx context.Context) error
}

// TokenSource supplies the bearer credential for the current session. It
// returns ErrUnauthorized when no session is active.
type TokenSource interface {
	Token() (string, error)
}

var (
	// ErrNotFound means the backend has no cart for this session. Callers
	// treat it as an empty cart, not a failure.
	ErrNotFound = errors.New("cart not found")

	// ErrUnauthorized means the session credential is missing or expired.
	// Handled by session invalidation, not by the cart subsystem.
	ErrUnauthorized = errors.New("unauthorized")
)
