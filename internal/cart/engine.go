package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
	"github.com/cbydainnt/mygraduationproject/internal/gateway"
	"github.com/cbydainnt/mygraduationproject/internal/store"
)

// Engine reconciles the durable local cart with the remote cart API. Every
// mutating operation captures the current snapshot, applies the change
// locally first so the UI never waits on the network, then syncs the remote
// cart for signed-in sessions and rolls the store back wholesale if that
// sync fails. Guests stop after the local write.
//
// The mutex serializes each operation end to end, local apply through remote
// sync. A rollback can therefore only ever restore the state its own
// operation replaced; a slow remote response cannot clobber a later change.
type Engine struct {
	store   store.SnapshotStore
	gateway gateway.CartGateway
	authed  func() bool

	mu  sync.Mutex
	sfg singleflight.Group
}

func NewEngine(snapshots store.SnapshotStore, gw gateway.CartGateway, authed func() bool) *Engine {
	return &Engine{
		store:   snapshots,
		gateway: gw,
		authed:  authed,
	}
}

// Snapshot returns the current local cart state.
func (e *Engine) Snapshot() domain.CartSnapshot {
	return e.read()
}

// Fetch reconciles local state from the server. Guests keep their local cart
// untouched. For signed-in sessions the server cart replaces the local one;
// a missing server cart means empty, and any other failure leaves the local
// snapshot in place so the user keeps what they had.
//
// Concurrent fetches (page load racing the login coordinator) collapse into
// one gateway call.
func (e *Engine) Fetch(ctx context.Context) (domain.CartSnapshot, error) {
	v, err, _ := e.sfg.Do("fetch", func() (interface{}, error) {
		return e.fetch(ctx)
	})
	if err != nil {
		return e.read(), err
	}
	return v.(domain.CartSnapshot), nil
}

func (e *Engine) fetch(ctx context.Context) (domain.CartSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.authed() {
		return e.read(), nil
	}

	remote, err := e.gateway.FetchCart(ctx)
	if errors.Is(err, gateway.ErrNotFound) {
		empty := domain.CartSnapshot{UpdatedAt: time.Now()}
		e.commit(empty)
		return empty, nil
	}
	if err != nil {
		return e.read(), &OperationFailedError{Op: "fetch", Err: err}
	}

	e.commit(remote)
	return remote, nil
}

// Add puts quantity units of product into the cart, incrementing the existing
// line when present. The combined total is checked against the product's
// stock before anything is written.
func (e *Engine) Add(ctx context.Context, product domain.AddableProduct, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.read()
	next := before.Clone()

	inCart := 0
	existing := next.Find(product.ProductID)
	if existing != nil {
		inCart = existing.Quantity
	}
	if inCart+quantity > product.Stock {
		return &StockExceededError{
			ProductID: product.ProductID,
			Name:      product.Name,
			Requested: inCart + quantity,
			Available: product.Stock,
		}
	}

	if existing != nil {
		existing.Quantity += quantity
		existing.Selected = true
		existing.Stock = product.Stock
	} else {
		next.Items = append(next.Items, domain.CartItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: product.Price,
			Quantity:  quantity,
			Selected:  true,
			Stock:     product.Stock,
		})
	}
	next.UpdatedAt = time.Now()
	e.commit(next)

	if !e.authed() {
		return nil
	}
	if err := e.gateway.AddItem(ctx, product.ProductID, quantity); err != nil {
		e.commit(before)
		return &OperationFailedError{Op: "add", Err: err}
	}
	return nil
}

// UpdateQuantity sets the absolute quantity of a line. A quantity of zero or
// below removes the line instead. Updating an absent product is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return e.Remove(ctx, productID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.read()
	next := before.Clone()

	item := next.Find(productID)
	if item == nil {
		log.Printf("cart: update for product %d ignored, not in cart", productID)
		return nil
	}
	if quantity > item.Stock {
		return &StockExceededError{
			ProductID: productID,
			Name:      item.Name,
			Requested: quantity,
			Available: item.Stock,
		}
	}

	item.Quantity = quantity
	next.UpdatedAt = time.Now()
	e.commit(next)

	if !e.authed() {
		return nil
	}
	if err := e.gateway.SetQuantity(ctx, productID, quantity); err != nil {
		e.commit(before)
		return &OperationFailedError{Op: "update", Err: err}
	}
	return nil
}

// Remove drops a line from the cart. Removing an absent product is a no-op.
func (e *Engine) Remove(ctx context.Context, productID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.read()
	if before.Find(productID) == nil {
		return nil
	}

	next := before.Clone()
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	next.Items = kept
	next.UpdatedAt = time.Now()
	e.commit(next)

	if !e.authed() {
		return nil
	}
	if err := e.gateway.RemoveItem(ctx, productID); err != nil {
		e.commit(before)
		return &OperationFailedError{Op: "remove", Err: err}
	}
	return nil
}

// RemoveMany drops the given lines as one batch, used after order placement
// to take just-purchased items out of the cart. One optimistic commit, one
// gateway call, full rollback on failure.
func (e *Engine) RemoveMany(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	drop := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}

	before := e.read()
	next := before.Clone()
	kept := next.Items[:0]
	for _, item := range next.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(before.Items) {
		return nil
	}
	next.Items = kept
	next.UpdatedAt = time.Now()
	e.commit(next)

	if !e.authed() {
		return nil
	}
	if err := e.gateway.RemoveItems(ctx, productIDs); err != nil {
		e.commit(before)
		return &OperationFailedError{Op: "remove-many", Err: err}
	}
	return nil
}

// Clear empties the cart. Unlike every other operation the local reset is
// kept even when the remote clear fails: the user asked for an empty cart
// and gets one, and the returned error lets the UI warn that the server
// still holds the old items.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.commit(domain.CartSnapshot{UpdatedAt: time.Now()})

	if !e.authed() {
		return nil
	}
	if err := e.gateway.Clear(ctx); err != nil {
		return &OperationFailedError{Op: "clear", Err: err}
	}
	return nil
}

// ResetLocal wipes the local cart without talking to the server. Logout path:
// the guest cart is not carried over and the server cart is not touched.
func (e *Engine) ResetLocal() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.Clear(); err != nil {
		log.Printf("cart: local reset failed: %v", err)
	}
}

// SetSelected flags one line in or out of the next checkout. Selection is a
// client-only concept and is never synced to the server, but it is committed
// to the store so it survives restarts.
func (e *Engine) SetSelected(productID int64, selected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.read()
	item := next.Find(productID)
	if item == nil {
		return
	}
	item.Selected = selected
	e.commit(next)
}

// SetAllSelected flags every line in or out of the next checkout.
func (e *Engine) SetAllSelected(selected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.read()
	for i := range next.Items {
		next.Items[i].Selected = selected
	}
	e.commit(next)
}

func (e *Engine) read() domain.CartSnapshot {
	snapshot, err := e.store.Read()
	if err != nil {
		log.Printf("cart: store read failed, using empty snapshot: %v", err)
		return domain.CartSnapshot{}
	}
	return snapshot
}

func (e *Engine) commit(snapshot domain.CartSnapshot) {
	if err := e.store.Write(snapshot); err != nil {
		log.Printf("cart: store write failed: %v", err)
	}
}
