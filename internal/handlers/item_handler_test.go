package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemHandlersRequireAdmin(t *testing.T) {
	env := setupTestRouter(t)
	body := gin.H{"item_name": "Widget", "price": 9.99, "quantity": 5}

	w := performRequest(env.router, http.MethodPost, "/items", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not authenticated", decode(t, w)["error"])

	w = performRequest(env.router, http.MethodPost, "/items", body, env.customerToken(t, uuid.NewString()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not admin", decode(t, w)["error"])

	w = performRequest(env.router, http.MethodGet, "/items", nil, env.customerToken(t, uuid.NewString()))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateItemHandler(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.adminToken(t)

	t.Run("Success - Create item", func(t *testing.T) {
		body := env.createItem(t, "Widget", 9.99, 5)
		assert.NotEmpty(t, body["id"])
		assert.Equal(t, "Widget", body["item_name"])
		assert.Equal(t, 9.99, body["price"])
		assert.Equal(t, float64(5), body["quantity"])
		assert.Regexp(t, timestampPattern, body["created_at"])
	})

	t.Run("Success - Zero price and stock", func(t *testing.T) {
		body := env.createItem(t, "Freebie", 0, 0)
		assert.Equal(t, float64(0), body["quantity"])
	})

	t.Run("Failure - Duplicate name", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/items", gin.H{
			"item_name": "Widget", "price": 1, "quantity": 1,
		}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Item already exists", decode(t, w)["error"])
	})

	t.Run("Failure - Negative price", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/items", gin.H{
			"item_name": "Broken", "price": -1, "quantity": 1,
		}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid price", decode(t, w)["error"])
	})

	t.Run("Failure - Missing quantity", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPost, "/items", gin.H{
			"item_name": "Broken", "price": 1,
		}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid quantity", decode(t, w)["error"])
	})
}

func TestListItemsHandler(t *testing.T) {
	env := setupTestRouter(t)
	env.createItem(t, "Widget", 9.99, 5)
	env.createItem(t, "Gadget", 1.5, 2)

	w := performRequest(env.router, http.MethodGet, "/items", nil, env.adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Widget", items[0]["item_name"])
	assert.Equal(t, "Gadget", items[1]["item_name"])
}

func TestUpdateItemHandler(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.adminToken(t)
	widget := env.createItem(t, "Widget", 9.99, 5)
	env.createItem(t, "Gadget", 1.5, 2)
	path := "/items?id=" + widget["id"].(string)

	t.Run("Success - Restock", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, path, gin.H{"quantity": 12}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, float64(12), body["quantity"])
		assert.Equal(t, 9.99, body["price"])
		assert.Equal(t, "Widget", body["item_name"])
	})

	t.Run("Failure - Null price", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, path, `{"price": null}`, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "price cannot be null", decode(t, w)["error"])
	})

	t.Run("Failure - Negative quantity", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, path, gin.H{"quantity": -1}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid quantity", decode(t, w)["error"])
	})

	t.Run("Failure - Rename to existing", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, path, gin.H{"item_name": "Gadget"}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Item already exists", decode(t, w)["error"])
	})

	t.Run("Failure - Unknown item", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, "/items?id="+uuid.NewString(), gin.H{"quantity": 1}, admin)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Item not found", decode(t, w)["error"])
	})

	t.Run("Failure - Invalid id", func(t *testing.T) {
		w := performRequest(env.router, http.MethodPatch, "/items?id=abc", gin.H{"quantity": 1}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id", decode(t, w)["error"])
	})
}

func TestDeleteItemHandler(t *testing.T) {
	env := setupTestRouter(t)
	admin := env.adminToken(t)
	widget := env.createItem(t, "Widget", 9.99, 5)
	path := "/items?id=" + widget["id"].(string)

	w := performRequest(env.router, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(env.router, http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
