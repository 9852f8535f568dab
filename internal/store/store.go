package store

import "github.com/cbydainnt/mygraduationproject/internal/domain"

// SnapshotStore is the durable local container for the cart snapshot. It is
// deliberately dumb: no validation, no network-side reconciliation. Consumers
// define this interface, not the implementations.
type SnapshotStore interface {
	Read() (domain.CartSnapshot, error)
	Write(snapshot domain.CartSnapshot) error
	Clear() error
}
