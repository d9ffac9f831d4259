package handlers

import (
	"time"

	"github.com/samber/lo"

	"github.com/Keoroanthony/go-inventory/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

type customerResponse struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Mail         string `json:"mail"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type loginResponse struct {
	customerResponse
	Token string `json:"token"`
}

type itemResponse struct {
	ID        string  `json:"id"`
	ItemName  string  `json:"item_name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type orderResponse struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	ItemID     string        `json:"item_id"`
	Quantity   int           `json:"quantity"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
	Item       *itemResponse `json:"item,omitempty"`
}

func newCustomerResponse(c *models.Customer) customerResponse {
	return customerResponse{
		ID:           c.ID,
		CustomerName: c.CustomerName,
		Mail:         c.Mail,
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}

func newItemResponse(i *models.Item) itemResponse {
	return itemResponse{
		ID:        i.ID,
		ItemName:  i.ItemName,
		Price:     i.Price,
		Quantity:  i.Quantity,
		CreatedAt: formatTime(i.CreatedAt),
		UpdatedAt: formatTime(i.UpdatedAt),
	}
}

func newItemResponses(items []models.Item) []itemResponse {
	return lo.Map(items, func(i models.Item, _ int) itemResponse {
		return newItemResponse(&i)
	})
}

func newOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		ItemID:     o.ItemID,
		Quantity:   o.Quantity,
		CreatedAt:  formatTime(o.CreatedAt),
		UpdatedAt:  formatTime(o.UpdatedAt),
	}
	if o.Item != nil {
		item := newItemResponse(o.Item)
		resp.Item = &item
	}
	return resp
}

func newOrderResponses(orders []models.Order) []orderResponse {
	return lo.Map(orders, func(o models.Order, _ int) orderResponse {
		return newOrderResponse(&o)
	})
}
