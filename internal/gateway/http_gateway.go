package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

// HTTPGateway implements CartGateway against the backend REST API. Every call
// carries the session bearer token and goes through a circuit breaker so a
// flapping backend fails fast instead of hanging the UI tier.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPGateway(baseURL string, tokens TokenSource, timeout time.Duration) *HTTPGateway {
	settings := gobreaker.Settings{
		Name:        "cart-api",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("cart gateway: breaker %s changed from %s to %s", name, from, to)
		},
		// Definite outcomes from the backend are not backend failures.
		IsSuccessful: func(err error) bool {
			return err == nil || err == ErrNotFound || err == ErrUnauthorized
		},
	}

	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:  tokens,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	token, err := g.tokens.Token()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return g.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, ErrUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return data, nil
		default:
			return nil, fmt.Errorf("%s %s: status %d: %s",
				method, path, resp.StatusCode, strings.TrimSpace(string(data)))
		}
	})
}

func (g *HTTPGateway) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	data, err := g.do(ctx, http.MethodGet, "/cart", nil, nil)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	var dto cartDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("decode cart response: %w", err)
	}
	return dto.toDomain(), nil
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (g *HTTPGateway) AddItem(ctx context.Context, productID int64, quantity int) error {
	_, err := g.do(ctx, http.MethodPost, "/cart/items", nil, addItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	return err
}

func (g *HTTPGateway) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	query := url.Values{"quantity": []string{strconv.Itoa(quantity)}}
	_, err := g.do(ctx, http.MethodPut, itemPath(productID), query, nil)
	return err
}

func (g *HTTPGateway) RemoveItem(ctx context.Context, productID int64) error {
	_, err := g.do(ctx, http.MethodDelete, itemPath(productID), nil, nil)
	return err
}

type removeItemsRequest struct {
	ProductIDs []int64 `json:"productIds"`
}

func (g *HTTPGateway) RemoveItems(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := g.do(ctx, http.MethodDelete, "/cart/items/batch", nil, removeItemsRequest{
		ProductIDs: productIDs,
	})
	return err
}

func (g *HTTPGateway) Clear(ctx context.Context) error {
	_, err := g.do(ctx, http.MethodDelete, "/cart", nil, nil)
	return err
}

func itemPath(productID int64) string {
	return "/cart/items/" + strconv.FormatInt(productID, 10)
}
