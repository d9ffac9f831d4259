package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/services"
)

type CreateCustomerRequest struct {
	CustomerName string `json:"customer_name" binding:"required,max=30"`
	Mail         string `json:"mail" binding:"required,email,max=100"`
	Password     string `json:"password" binding:"required,max=64,bcryptmax"`
}

type UpdateCustomerRequest struct {
	CustomerName *string `json:"customer_name" binding:"omitempty,max=30"`
	Password     *string `json:"password" binding:"omitempty,min=1,max=64,bcryptmax"`
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		apperror.Abort(c, err)
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), services.CustomerInput{
		CustomerName: req.CustomerName,
		Mail:         req.Mail,
		Password:     req.Password,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCustomerResponse(customer))
}

// GetCustomer returns the customer the access token was issued to.
func (h *Handler) GetCustomer(c *gin.Context) {
	claims, _ := auth.ClaimsFrom(c)

	customer, err := h.customers.Get(c.Request.Context(), claims.Subject)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, newCustomerResponse(customer))
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, err := queryID(c)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	var req UpdateCustomerRequest
	if err := bindPatch(c, &req, "customer_name", "password"); err != nil {
		apperror.Abort(c, err)
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), id, services.CustomerPatch{
		CustomerName: req.CustomerName,
		Password:     req.Password,
	})
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, newCustomerResponse(customer))
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, err := queryID(c)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		apperror.Abort(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
