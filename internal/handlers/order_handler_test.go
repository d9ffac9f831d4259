package handlers_test

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-inventory/internal/models"
	"github.com/Keoroanthony/go-inventory/internal/store"
)

func TestCreateOrderHandler(t *testing.T) {
	env := setupTestRouter(t)
	customer := env.createCustomer(t, "Ada", "a@b.com", "secret")
	item := env.createItem(t, "Widget", 9.99, 5)
	token := env.customerToken(t, customer["id"].(string))
	itemID := item["id"].(string)

	t.Run("Failure - Unauthenticated", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": itemID, "quantity": 1}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failure - Admin cannot order", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": itemID, "quantity": 1}, env.adminToken(t))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Not customer", decode(t, w)["error"])

		w = performRequest(env.router, http.MethodGet, "/orders", nil, env.adminToken(t))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failure - Zero quantity", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": itemID, "quantity": 0}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid quantity", decode(t, w)["error"])
	})

	t.Run("Failure - Unknown item", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": uuid.NewString(), "quantity": 1}, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Item not found", decode(t, w)["error"])
	})

	t.Run("Success - Create order", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": itemID, "quantity": 2}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decode(t, w)
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, customer["id"], body["customer_id"])
		assert.Equal(t, itemID, body["item_id"])
		assert.Equal(t, float64(2), body["quantity"])
		assert.Equal(t, 1, env.notifier.count())
	})

	t.Run("Failure - Not enough quantity", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": itemID, "quantity": 4}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Item not enough quantity", decode(t, w)["error"])
	})

	t.Run("Success - List own orders", func(t *testing.T) {
		w := performRequest(env.router, http.MethodGet, "/orders", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var orders []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		orderItem, ok := orders[0]["item"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Widget", orderItem["item_name"])
		assert.Equal(t, float64(3), orderItem["quantity"])
	})

	t.Run("Failure - Item with orders cannot be deleted", func(t *testing.T) {
		w := performRequest(env.router, http.MethodDelete, "/items?id="+itemID, nil, env.adminToken(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Item has orders", decode(t, w)["error"])
	})
}

func TestConcurrentOrdersForWidget(t *testing.T) {
	env := setupTestRouter(t)
	customer := env.createCustomer(t, "Ada", "a@b.com", "secret")
	item := env.createItem(t, "Widget", 9.99, 5)
	token := env.customerToken(t, customer["id"].(string))

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := performRequest(env.router, http.MethodPost, "/orders", gin.H{"item_id": item["id"], "quantity": 3}, token)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusBadRequest}, codes)

	ctx := t.Context()
	stored, err := store.GetByID[models.Item](ctx, env.store, item["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Quantity)

	n, err := store.Count[models.Order](ctx, env.store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
