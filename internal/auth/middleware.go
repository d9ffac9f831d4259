package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-inventory/internal/apperror"
)

// CookieName is the cookie carrying the access token.
const CookieName = "access_token"

const claimsKey = "auth.claims"

// RequireAuth rejects requests without a valid access_token cookie and puts the
// token claims on the gin context for handlers.
func RequireAuth(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(CookieName)
		if errors.Is(err, http.ErrNoCookie) || raw == "" {
			apperror.Abort(c, apperror.ErrNotAuthenticated)
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			apperror.Abort(c, apperror.ErrCredentials)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			apperror.Abort(c, apperror.ErrNotAuthenticated)
			return
		}
		if !claims.IsAdmin() {
			apperror.Abort(c, apperror.ErrNotAdmin)
			return
		}
		c.Next()
	}
}

// RequireCustomer must run after RequireAuth. It keeps the admin token off
// routes that act on the caller's own customer record.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			apperror.Abort(c, apperror.ErrNotAuthenticated)
			return
		}
		if claims.IsAdmin() {
			apperror.Abort(c, apperror.ErrNotCustomer)
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// SetTokenCookie stores token in an http-only cookie living as long as the token.
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}
