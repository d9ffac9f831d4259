package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required,max=64,bcryptmax"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a customer by mail and password, returns the customer
// with a fresh token and sets the access_token cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.ErrInvalidPasswordOrEmail)
		return
	}

	customer, err := h.customers.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apperror.Abort(c, err)
		return
	}

	token, err := h.tokens.Issue(customer.ID, map[string]any{"mail": customer.Mail}, h.tokenTTL)
	if err != nil {
		apperror.Abort(c, apperror.Internal("Error issuing token", err))
		return
	}

	auth.SetTokenCookie(c, token, int(h.tokenTTL.Seconds()), h.cookieSecure)
	c.JSON(http.StatusOK, loginResponse{
		customerResponse: newCustomerResponse(customer),
		Token:            token,
	})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.ErrInvalidPasswordOrEmail)
		return
	}
	if !h.admin.Verify(req.Username, req.Password) {
		apperror.Abort(c, apperror.ErrInvalidPasswordOrEmail)
		return
	}

	token, err := h.tokens.Issue(auth.AdminSubject, nil, h.tokenTTL)
	if err != nil {
		apperror.Abort(c, apperror.Internal("Error issuing token", err))
		return
	}

	auth.SetTokenCookie(c, token, int(h.tokenTTL.Seconds()), h.cookieSecure)
	c.JSON(http.StatusOK, token)
}
