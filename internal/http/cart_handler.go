package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cbydainnt/mygraduationproject/internal/cart"
	"github.com/cbydainnt/mygraduationproject/internal/domain"
	"github.com/cbydainnt/mygraduationproject/internal/gateway"
)

// CartHandler exposes the cart engine to the UI tier.
type CartHandler struct {
	engine  *cart.Engine
	timeout time.Duration
}

func NewCartHandler(engine *cart.Engine, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

type RemoveItemsRequestDTO struct {
	ProductIDs []int64 `json:"product_ids"`
}

type SelectionRequestDTO struct {
	Selected bool `json:"selected"`
}

// CartResponseDTO is the snapshot plus the derived totals every cart and
// checkout view needs, so the UI never recomputes them.
type CartResponseDTO struct {
	Items            []domain.CartItem `json:"items"`
	DistinctCount    int               `json:"distinct_count"`
	SelectedQuantity int               `json:"selected_quantity"`
	SelectedTotal    float64           `json:"selected_total"`
	AllSelected      bool              `json:"all_selected"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func cartResponse(snapshot domain.CartSnapshot) CartResponseDTO {
	items := snapshot.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		Items:            items,
		DistinctCount:    snapshot.DistinctItemCount(),
		SelectedQuantity: snapshot.TotalSelectedQuantity(),
		SelectedTotal:    snapshot.TotalSelectedPrice(),
		AllSelected:      snapshot.AllSelected(),
		UpdatedAt:        snapshot.UpdatedAt,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

// RefreshCart forces reconciliation from the server, used on page load for
// signed-in sessions.
func (h *CartHandler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.engine.Fetch(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(snapshot))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return
	}

	// Map the catalog shape into the narrow addable form at the boundary.
	product := domain.AddableProduct{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
		Stock:     req.Stock,
	}

	if err := h.engine.Add(ctx, product, req.Quantity); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be an integer")
		return
	}

	if err := h.engine.UpdateQuantity(ctx, productID, quantity); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.engine.Remove(ctx, productID); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RemoveItemsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.engine.RemoveMany(ctx, req.ProductIDs); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.engine.Clear(ctx); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) SetItemSelected(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req SelectionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.engine.SetSelected(productID, req.Selected)
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func (h *CartHandler) SetAllSelected(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.engine.SetAllSelected(req.Selected)
	respondJSON(w, http.StatusOK, cartResponse(h.engine.Snapshot()))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

// handleEngineError maps engine conditions to HTTP statuses. The UI treats
// everything here as a transient, non-blocking warning.
func handleEngineError(w http.ResponseWriter, err error) {
	var stockErr *cart.StockExceededError
	if errors.As(err, &stockErr) {
		respondError(w, http.StatusConflict, "stock_exceeded",
			fmt.Sprintf("only %d of %q in stock", stockErr.Available, stockErr.Name))
		return
	}

	if errors.Is(err, cart.ErrInvalidQuantity) {
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		return
	}

	if errors.Is(err, gateway.ErrUnauthorized) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "session expired, sign in again")
		return
	}

	var opErr *cart.OperationFailedError
	if errors.As(err, &opErr) {
		respondError(w, http.StatusBadGateway, "operation_failed",
			fmt.Sprintf("cart %s failed, please retry", opErr.Op))
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
