package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshotWith(items ...CartItem) CartSnapshot {
	return CartSnapshot{Items: items}
}

func TestDistinctItemCount(t *testing.T) {
	assert.Equal(t, 0, CartSnapshot{}.DistinctItemCount())

	s := snapshotWith(
		CartItem{ProductID: 1, Quantity: 5, Selected: true},
		CartItem{ProductID: 2, Quantity: 1, Selected: false},
	)
	assert.Equal(t, 2, s.DistinctItemCount(), "distinct lines, not total quantity")
}

func TestTotalSelectedQuantity(t *testing.T) {
	s := snapshotWith(
		CartItem{ProductID: 1, Quantity: 2, Selected: true},
		CartItem{ProductID: 2, Quantity: 3, Selected: false},
		CartItem{ProductID: 3, Quantity: 4, Selected: true},
	)
	assert.Equal(t, 6, s.TotalSelectedQuantity())
}

func TestTotalSelectedPrice(t *testing.T) {
	tests := []struct {
		name     string
		snapshot CartSnapshot
		want     float64
	}{
		{
			name:     "empty cart",
			snapshot: CartSnapshot{},
			want:     0,
		},
		{
			name: "nothing selected",
			snapshot: snapshotWith(
				CartItem{ProductID: 1, UnitPrice: 100, Quantity: 2, Selected: false},
			),
			want: 0,
		},
		{
			name: "selected subset only",
			snapshot: snapshotWith(
				CartItem{ProductID: 1, UnitPrice: 100, Quantity: 2, Selected: true},
				CartItem{ProductID: 2, UnitPrice: 50, Quantity: 3, Selected: false},
				CartItem{ProductID: 3, UnitPrice: 19.99, Quantity: 1, Selected: true},
			),
			want: 219.99,
		},
		{
			name: "invalid prices count as zero",
			snapshot: snapshotWith(
				CartItem{ProductID: 1, UnitPrice: math.NaN(), Quantity: 2, Selected: true},
				CartItem{ProductID: 2, UnitPrice: -5, Quantity: 3, Selected: true},
				CartItem{ProductID: 3, UnitPrice: 10, Quantity: 2, Selected: true},
			),
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.snapshot.TotalSelectedPrice(), 1e-9)
		})
	}
}

func TestAllSelected(t *testing.T) {
	assert.False(t, CartSnapshot{}.AllSelected(), "empty cart is never all-selected")

	partial := snapshotWith(
		CartItem{ProductID: 1, Selected: true},
		CartItem{ProductID: 2, Selected: false},
	)
	assert.False(t, partial.AllSelected())

	full := snapshotWith(
		CartItem{ProductID: 1, Selected: true},
		CartItem{ProductID: 2, Selected: true},
	)
	assert.True(t, full.AllSelected())
}

func TestSelectedItems_PreservesOrder(t *testing.T) {
	s := snapshotWith(
		CartItem{ProductID: 3, Selected: true},
		CartItem{ProductID: 1, Selected: false},
		CartItem{ProductID: 2, Selected: true},
	)

	selected := s.SelectedItems()
	assert.Len(t, selected, 2)
	assert.Equal(t, int64(3), selected[0].ProductID)
	assert.Equal(t, int64(2), selected[1].ProductID)
}

func TestClone_IsIndependent(t *testing.T) {
	original := snapshotWith(CartItem{ProductID: 1, Quantity: 2, Selected: true})
	clone := original.Clone()

	clone.Items[0].Quantity = 99
	assert.Equal(t, 2, original.Items[0].Quantity, "mutating a clone must not touch the original")
}

func TestFind(t *testing.T) {
	s := snapshotWith(
		CartItem{ProductID: 1, Quantity: 2},
		CartItem{ProductID: 2, Quantity: 3},
	)

	item := s.Find(2)
	assert.NotNil(t, item)
	assert.Equal(t, 3, item.Quantity)
	assert.Nil(t, s.Find(42))
}

func TestEqual(t *testing.T) {
	a := snapshotWith(CartItem{ProductID: 1, Quantity: 2, Selected: true})
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Items[0].Quantity = 3
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Items = append(c.Items, CartItem{ProductID: 2, Quantity: 1})
	assert.False(t, a.Equal(c))
}
