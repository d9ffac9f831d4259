package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
)

type CreateOrderRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrder places an order for the authenticated customer. A notification is
// queued once the order is committed.
func (h *Handler) CreateOrder(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)

	var req CreateOrderRequest
	if err := bindJSON(c, &req); err != nil {
		apperror.Abort(c, err)
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), claims.Subject, req.ItemID, req.Quantity)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	resp := newOrderResponse(order)
	resp.Item = nil
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ListOrders(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)

	orders, err := h.orders.ListForCustomer(c.Request.Context(), claims.Subject)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, newOrderResponses(orders))
}
