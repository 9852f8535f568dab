package domain

import "math"

// Derived read-side views over a snapshot. All of these are pure and never
// mutate the snapshot; checkout and cart pages are built on them.

// DistinctItemCount returns the number of line items, not the total quantity.
func (s CartSnapshot) DistinctItemCount() int {
	return len(s.Items)
}

// TotalSelectedQuantity sums Quantity over selected items.
func (s CartSnapshot) TotalSelectedQuantity() int {
	total := 0
	for _, item := range s.Items {
		if item.Selected {
			total += item.Quantity
		}
	}
	return total
}

// TotalSelectedPrice sums UnitPrice*Quantity over selected items. Invalid
// prices (NaN, negative) count as zero rather than poisoning the total.
func (s CartSnapshot) TotalSelectedPrice() float64 {
	total := 0.0
	for _, item := range s.Items {
		if !item.Selected {
			continue
		}
		price := item.UnitPrice
		if math.IsNaN(price) || price < 0 {
			price = 0
		}
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		total += price * float64(qty)
	}
	return total
}

// AllSelected reports whether the snapshot is non-empty and every item is
// selected.
func (s CartSnapshot) AllSelected() bool {
	if len(s.Items) == 0 {
		return false
	}
	for _, item := range s.Items {
		if !item.Selected {
			return false
		}
	}
	return true
}

// SelectedItems returns the selected subset in cart order.
func (s CartSnapshot) SelectedItems() []CartItem {
	out := make([]CartItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Selected {
			out = append(out, item)
		}
	}
	return out
}
