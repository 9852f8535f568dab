package gateway

import (
	"encoding/json"
	"time"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// Wire shapes of the backend cart API. Price comes back as a decimal that
// some deployments serialize as a string, hence json.Number. Stock may be
// absent for catalog entries that predate inventory tracking.
type cartItemDTO struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	ImageURL  string      `json:"imageUrl"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
	Stock     *int        `json:"stock"`
}

type cartDTO struct {
	Items []cartItemDTO `json:"items"`
}

// toDomain maps a server cart into a snapshot. A full fetch makes the server
// authoritative, so every item comes back selected; unparseable prices are
// zeroed and missing stock gets the permissive default.
func (c cartDTO) toDomain() domain.CartSnapshot {
	snapshot := domain.CartSnapshot{UpdatedAt: time.Now()}
	for _, item := range c.Items {
		price, err := item.Price.Float64()
		if err != nil {
			price = 0
		}
		stock := domain.DefaultStock
		if item.Stock != nil {
			stock = *item.Stock
		}
		snapshot.Items = append(snapshot.Items, domain.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: price,
			Quantity:  item.Quantity,
			Selected:  true,
			Stock:     stock,
		})
	}
	return snapshot
}
