package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/services"
)

type CreateItemRequest struct {
	ItemName string   `json:"item_name" binding:"required,max=30"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
	Quantity *int     `json:"quantity" binding:"required,gte=0"`
}

type UpdateItemRequest struct {
	ItemName *string  `json:"item_name" binding:"omitempty,min=1,max=30"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" binding:"omitempty,gte=0"`
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := bindJSON(c, &req); err != nil {
		apperror.Abort(c, err)
		return
	}

	item, err := h.items.Create(c.Request.Context(), services.ItemInput{
		ItemName: req.ItemName,
		Price:    *req.Price,
		Quantity: *req.Quantity,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, newItemResponse(item))
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, newItemResponses(items))
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := queryID(c)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	var req UpdateItemRequest
	if err := bindPatch(c, &req, "item_name", "price", "quantity"); err != nil {
		apperror.Abort(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, services.ItemPatch{
		ItemName: req.ItemName,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, newItemResponse(item))
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := queryID(c)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		apperror.Abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
