package domain

import "time"

// DefaultStock is assumed for items whose stock snapshot is missing, e.g.
// entries persisted before stock tracking was added.
const DefaultStock = 99

// CartItem is one line in the cart: a unique product plus the quantity and
// display metadata snapshotted when the item entered the cart. Selected is a
// client-only flag marking items that participate in the next checkout; the
// backend has no notion of it.
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Selected  bool    `json:"selected"`
	Stock     int     `json:"stock"`
}

// CartSnapshot is the full cart state at one instant.
// Invariants: no two items share a ProductID, every Quantity is >= 1.
type CartSnapshot struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy, safe to mutate independently. Used to capture
// rollback snapshots before an optimistic mutation.
func (s CartSnapshot) Clone() CartSnapshot {
	out := CartSnapshot{UpdatedAt: s.UpdatedAt}
	if s.Items != nil {
		out.Items = make([]CartItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Find returns a pointer into Items for the given product, or nil.
func (s *CartSnapshot) Find(productID int64) *CartItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// Equal reports whether two snapshots hold the same items in the same order
// with the same timestamp.
func (s CartSnapshot) Equal(other CartSnapshot) bool {
	if len(s.Items) != len(other.Items) {
		return false
	}
	if !s.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	for i := range s.Items {
		if s.Items[i] != other.Items[i] {
			return false
		}
	}
	return true
}

// AddableProduct is the narrow shape a product must be reduced to before it
// may enter the cart. Catalog representations are mapped into this at the
// cart boundary so the cart never depends on the full catalog model.
type AddableProduct struct {
	ProductID int64
	Name      string
	Price     float64
	ImageURL  string
	Stock     int
}
