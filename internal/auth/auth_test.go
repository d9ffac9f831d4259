package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("s3cret!", hash))
	assert.False(t, h.Verify("s3cret", "not-a-bcrypt-hash"))
}

func TestPasswordHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokenIssueAndValidate(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)

	raw, err := tokens.Issue("customer-1", map[string]any{"mail": "a@b.com", "sub": "spoofed"}, 0)
	require.NoError(t, err)

	claims, err := tokens.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "customer-1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Mail)
	assert.False(t, claims.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt, 2*time.Second)
}

func TestTokenValidateFailures(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	other := NewTokenService("other-secret", time.Minute)

	expired, err := tokens.Issue("customer-1", nil, time.Minute)
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	tokens.now = time.Now

	forged, err := other.Issue("admin", nil, time.Minute)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "customer-1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":         "",
		"garbage":       "not.a.token",
		"bad signature": forged,
		"no subject":    noSubject,
		"no expiry":     noExpiry,
		"wrong alg":     wrongAlg,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Validate(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAdminCredentials(t *testing.T) {
	admin := AdminCredentials{Username: "root@example.com", Password: "pw"}

	assert.True(t, admin.Verify("root@example.com", "pw"))
	assert.False(t, admin.Verify("root@example.com", "PW"))
	assert.False(t, admin.Verify("someone@example.com", "pw"))
	assert.False(t, AdminCredentials{}.Verify("", ""))
}

func setupAuthRouter(tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject})
	})
	r.GET("/admin", RequireAuth(tokens), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/orders", RequireAuth(tokens), RequireCustomer(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func performWithCookie(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	r.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthorizationBoundary(t *testing.T) {
	tokens := NewTokenService("secret", time.Minute)
	r := setupAuthRouter(tokens)

	adminToken, err := tokens.Issue(AdminSubject, nil, 0)
	require.NoError(t, err)
	customerToken, err := tokens.Issue("customer-1", nil, 0)
	require.NoError(t, err)

	t.Run("admin token passes admin check", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, performWithCookie(r, "/admin", adminToken).Code)
	})

	t.Run("customer token is forbidden", func(t *testing.T) {
		recorder := performWithCookie(r, "/admin", customerToken)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.JSONEq(t, `{"error":"Not admin"}`, recorder.Body.String())
	})

	t.Run("no token is unauthenticated", func(t *testing.T) {
		recorder := performWithCookie(r, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error":"User not authenticated"}`, recorder.Body.String())
		assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
	})

	t.Run("invalid token is unauthenticated", func(t *testing.T) {
		recorder := performWithCookie(r, "/me", "garbage")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error":"Could not validate credentials"}`, recorder.Body.String())
	})

	t.Run("admin token is forbidden on customer routes", func(t *testing.T) {
		recorder := performWithCookie(r, "/orders", adminToken)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.JSONEq(t, `{"error":"Not customer"}`, recorder.Body.String())
	})

	t.Run("customer token passes customer check", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, performWithCookie(r, "/orders", customerToken).Code)
	})

	t.Run("customer token exposes subject", func(t *testing.T) {
		recorder := performWithCookie(r, "/me", customerToken)
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"sub":"customer-1"}`, recorder.Body.String())
	})
}
