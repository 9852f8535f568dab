package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbydainnt/mygraduationproject/internal/domain"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) {
	return s.token, s.err
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL, staticTokens{token: "jwt-abc"}, 5*time.Second)
}

func TestFetchCart_MapsResponse(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))

		// Price as string, stock missing on the second item: both shapes
		// the backend is known to produce.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"productId":1,"name":"Chrono One","imageUrl":"/img/1.jpg","price":"199.99","quantity":2,"stock":5},
			{"productId":2,"name":"Diver Two","price":89.5,"quantity":1}
		]}`))
	})

	snapshot, err := gw.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 2)

	first := snapshot.Items[0]
	assert.Equal(t, int64(1), first.ProductID)
	assert.Equal(t, "Chrono One", first.Name)
	assert.InDelta(t, 199.99, first.UnitPrice, 1e-9)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 5, first.Stock)
	assert.True(t, first.Selected, "a full fetch selects everything")

	second := snapshot.Items[1]
	assert.Equal(t, domain.DefaultStock, second.Stock, "missing stock gets the default")
	assert.True(t, second.Selected)
}

func TestFetchCart_NotFound(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := gw.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchCart_Unauthorized(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := gw.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMissingTokenShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, staticTokens{err: ErrUnauthorized}, time.Second)
	err := gw.AddItem(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called, "no network call without a credential")
}

func TestAddItem_SendsBody(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body addItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(7), body.ProductID)
		assert.Equal(t, 3, body.Quantity)

		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, gw.AddItem(context.Background(), 7, 3))
}

func TestSetQuantity_SendsQueryParam(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cart/items/7", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("quantity"))
	})

	require.NoError(t, gw.SetQuantity(context.Background(), 7, 4))
}

func TestRemoveItems_Batch(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart/items/batch", r.URL.Path)

		var body removeItemsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{1, 2, 3}, body.ProductIDs)
	})

	require.NoError(t, gw.RemoveItems(context.Background(), []int64{1, 2, 3}))
}

func TestRemoveItems_EmptyIsNoOp(t *testing.T) {
	called := false
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	require.NoError(t, gw.RemoveItems(context.Background(), nil))
	assert.False(t, called)
}

func TestClear(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, gw.Clear(context.Background()))
}

func TestServerErrorIsReported(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := gw.RemoveItem(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	var err error
	for i := 0; i < 10; i++ {
		err = gw.RemoveItem(ctx, 1)
		require.Error(t, err)
	}
	assert.ErrorIs(t, err, gobreaker.ErrOpenState,
		"a flapping backend must start failing fast")
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := gw.FetchCart(ctx)
		assert.ErrorIs(t, err, ErrNotFound, "definite outcomes never open the breaker")
	}
}
