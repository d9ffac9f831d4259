// Package handlers maps the HTTP endpoints onto the services.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/services"
)

type Options struct {
	Customers    *services.CustomerService
	Items        *services.ItemService
	Orders       *services.OrderService
	Tokens       *auth.TokenService
	Admin        auth.AdminCredentials
	TokenTTL     time.Duration
	CookieSecure bool
	// Ping reports storage health for /health. Optional.
	Ping func(ctx context.Context) error
}

type Handler struct {
	customers    *services.CustomerService
	items        *services.ItemService
	orders       *services.OrderService
	tokens       *auth.TokenService
	admin        auth.AdminCredentials
	tokenTTL     time.Duration
	cookieSecure bool
	ping         func(ctx context.Context) error
}

func New(opts Options) *Handler {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	return &Handler{
		customers:    opts.Customers,
		items:        opts.Items,
		orders:       opts.Orders,
		tokens:       opts.Tokens,
		admin:        opts.Admin,
		tokenTTL:     opts.TokenTTL,
		cookieSecure: opts.CookieSecure,
		ping:         opts.Ping,
	}
}

// bcryptMaxBytes is the longest input bcrypt accepts. Rune based max= tags
// let multi-byte passwords past it.
const bcryptMaxBytes = 72

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Report validation failures under the JSON field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	}); err != nil {
		panic(err)
	}
}

// queryID reads and validates the id query parameter.
func queryID(c *gin.Context) (string, error) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		return "", apperror.ErrInvalidID
	}
	return id.String(), nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindError(err)
	}
	return nil
}

// bindPatch decodes a partial update. Absent keys stay nil in dst; an explicit
// null for one of nonNull is rejected since those columns cannot be cleared.
func bindPatch(c *gin.Context, dst any, nonNull ...string) error {
	body, err := c.GetRawData()
	if err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return apperror.BadRequest("Invalid request body")
	}

	parsed := gjson.ParseBytes(body)
	for _, field := range nonNull {
		if v := parsed.Get(field); v.Exists() && v.Type == gjson.Null {
			return apperror.BadRequest(field + " cannot be null")
		}
	}

	if err := binding.JSON.BindBody(body, dst); err != nil {
		return bindError(err)
	}
	return nil
}

func bindError(err error) *apperror.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.BadRequest(fmt.Sprintf("Invalid %s", verrs[0].Field()))
	}
	return apperror.BadRequest("Invalid request body")
}
