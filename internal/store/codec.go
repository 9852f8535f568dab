package store

import (
	"encoding/json"
	"time"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// Persisted form of the snapshot. Selected and Stock are pointers so records
// written before those fields existed hydrate with sensible defaults instead
// of zero values: an unknown selection means "selected", an unknown stock
// means the permissive default.
type persistedItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Selected  *bool   `json:"selected"`
	Stock     *int    `json:"stock"`
}

type persistedSnapshot struct {
	Items     []persistedItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func encodeSnapshot(snapshot domain.CartSnapshot) ([]byte, error) {
	out := persistedSnapshot{UpdatedAt: snapshot.UpdatedAt}
	for _, item := range snapshot.Items {
		selected := item.Selected
		stock := item.Stock
		out.Items = append(out.Items, persistedItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Selected:  &selected,
			Stock:     &stock,
		})
	}
	return json.Marshal(out)
}

func decodeSnapshot(data []byte) (domain.CartSnapshot, error) {
	var in persistedSnapshot
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.CartSnapshot{}, err
	}

	snapshot := domain.CartSnapshot{UpdatedAt: in.UpdatedAt}
	for _, item := range in.Items {
		selected := true
		if item.Selected != nil {
			selected = *item.Selected
		}
		stock := domain.DefaultStock
		if item.Stock != nil {
			stock = *item.Stock
		}
		snapshot.Items = append(snapshot.Items, domain.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Selected:  selected,
			Stock:     stock,
		})
	}
	return snapshot, nil
}
