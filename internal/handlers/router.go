package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/Keoroanthony/go-inventory/configs"
	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/logging"
	"github.com/Keoroanthony/go-inventory/internal/metrics"
	"github.com/Keoroanthony/go-inventory/internal/tracing"
)

// NewRouter builds the gin engine with every endpoint registered.
func NewRouter(h *Handler, log *zap.Logger, m *metrics.Metrics, rate config.RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			apperror.Abort(c, apperror.Internal("Server error", fmt.Errorf("panic: %v", recovered)))
		}),
		tracing.Middleware(nil),
		logging.Middleware(log),
		m.Middleware(),
	)

	r.GET("/", RateLimit(rate.Limit, rate.Period), h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.POST("/customers", h.CreateCustomer)
	r.PATCH("/customers", h.UpdateCustomer)
	r.DELETE("/customers", h.DeleteCustomer)
	r.POST("/login", h.Login)
	r.POST("/admin/login", h.AdminLogin)

	authed := r.Group("/", auth.RequireAuth(h.tokens))
	{
		authed.GET("/customers", h.GetCustomer)
	}

	orders := r.Group("/orders", auth.RequireAuth(h.tokens), auth.RequireCustomer())
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
	}

	items := r.Group("/items", auth.RequireAuth(h.tokens), auth.RequireAdmin())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.PATCH("", h.UpdateItem)
		items.DELETE("", h.DeleteItem)
	}

	return r
}
