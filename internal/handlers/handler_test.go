package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	config "github.com/Keoroanthony/go-inventory/configs"
	"github.com/Keoroanthony/go-inventory/internal/auth"
	"github.com/Keoroanthony/go-inventory/internal/db"
	"github.com/Keoroanthony/go-inventory/internal/handlers"
	"github.com/Keoroanthony/go-inventory/internal/metrics"
	"github.com/Keoroanthony/go-inventory/internal/notifier"
	"github.com/Keoroanthony/go-inventory/internal/services"
	"github.com/Keoroanthony/go-inventory/internal/store"
)

const (
	adminUser     = "admin@example.com"
	adminPassword = "admin-secret"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.OrderCreated
}

func (n *recordingNotifier) Notify(_ context.Context, e notifier.OrderCreated) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type testEnv struct {
	router   *gin.Engine
	store    *store.Store
	tokens   *auth.TokenService
	notifier *recordingNotifier
}

func setupTestRouter(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Each test gets its own in-memory database.
	gdb, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	st := store.New(gdb)
	tokens := auth.NewTokenService("test-secret-key", time.Minute)
	rec := &recordingNotifier{}
	m := metrics.New(prometheus.NewRegistry())

	h := handlers.New(handlers.Options{
		Customers: services.NewCustomerService(st, auth.NewPasswordHasher(bcrypt.MinCost)),
		Items:     services.NewItemService(st),
		Orders:    services.NewOrderService(st, rec, m, 10*time.Second),
		Tokens:    tokens,
		Admin:     auth.AdminCredentials{Username: adminUser, Password: adminPassword},
		TokenTTL:  time.Minute,
		Ping:      st.Ping,
	})
	router := handlers.NewRouter(h, zap.NewNop(), m, config.RateLimitConfig{Limit: 3, Period: 5 * time.Second})

	return testEnv{router: router, store: st, tokens: tokens, notifier: rec}
}

// performRequest sends body as JSON; a string body is sent as is.
func performRequest(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		reqBody, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (env testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := env.tokens.Issue(auth.AdminSubject, nil, 0)
	require.NoError(t, err)
	return token
}

func (env testEnv) customerToken(t *testing.T, id string) string {
	t.Helper()
	token, err := env.tokens.Issue(id, nil, 0)
	require.NoError(t, err)
	return token
}

func (env testEnv) createCustomer(t *testing.T, name, mail, password string) map[string]any {
	t.Helper()
	w := performRequest(env.router, http.MethodPost, "/customers", gin.H{
		"customer_name": name,
		"mail":          mail,
		"password":      password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}

func (env testEnv) createItem(t *testing.T, name string, price float64, quantity int) map[string]any {
	t.Helper()
	w := performRequest(env.router, http.MethodPost, "/items", gin.H{
		"item_name": name,
		"price":     price,
		"quantity":  quantity,
	}, env.adminToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)
}
