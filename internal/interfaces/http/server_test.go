package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/toyshop-storefront/internal/config"
	"github.com/your-org/toyshop-storefront/internal/domain/analytics"
	"github.com/your-org/toyshop-storefront/internal/domain/checkout"
	"github.com/your-org/toyshop-storefront/internal/domain/order"
	"github.com/your-org/toyshop-storefront/internal/domain/product"
	"github.com/your-org/toyshop-storefront/internal/domain/shop"
	"github.com/your-org/toyshop-storefront/internal/infrastructure/storage"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/toyshop-storefront/internal/interfaces/http/routes"
	"github.com/your-org/toyshop-storefront/internal/pkg/auth"
	"github.com/your-org/toyshop-storefront/internal/pkg/logger"
	"github.com/your-org/toyshop-storefront/internal/pkg/pdf"
)

const (
	adminEmail    = "admin@toyshop.test"
	adminPassword = "Sup3rSecretPass"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeCatalog overrides the catalog calls the storefront makes; any other
// call panics through the nil embedded interface.
type fakeCatalog struct {
	handlers.Catalog
	products []product.Product
	levels   map[string][]product.BlindBox
}

func (f *fakeCatalog) FetchProducts(ctx context.Context, opts *product.FetchOptions) []product.Product {
	return f.products
}

func (f *fakeCatalog) FetchProduct(ctx context.Context, id string) (*product.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (f *fakeCatalog) FetchBlindBox(ctx context.Context, productID string) []product.BlindBox {
	return f.levels[productID]
}

func (f *fakeCatalog) FetchCategories(ctx context.Context) []product.Category {
	return []product.Category{}
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]order.Order
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]order.Order)}
}

func (f *fakeOrders) Create(ctx context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) List(ctx context.Context) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]order.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) Get(ctx context.Context, id string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status order.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return nil
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

type fakeCounter struct {
	mu sync.Mutex
	n  map[string]int64
}

func (f *fakeCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == nil {
		f.n = make(map[string]int64)
	}
	f.n[key]++
	return f.n[key], nil
}

type testEnv struct {
	handler http.Handler
	orders  *fakeOrders
}

type envOptions struct {
	kv      storage.KV
	limiter middleware.Counter
	checks  []HealthCheck
}

func testConfig(t *testing.T) *config.Config {
	hash, err := auth.NewPasswordManager().HashPassword(adminPassword)
	require.NoError(t, err)

	return &config.Config{
		App:     config.AppConfig{Name: "Toy Shop", Version: "test", Environment: "test"},
		Server:  config.ServerConfig{RequestTimeout: 5 * time.Second},
		Session: config.SessionConfig{CookieName: "session_id", CookieMaxAge: 3600},
		Admin:   config.AdminConfig{Email: adminEmail, PasswordHash: hash},
		JWT:     config.JWTConfig{Secret: "test-secret-that-is-long-enough-for-hs256", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{
			RateLimitPerMinute: 2,
			MaxBodyBytes:       1 << 16,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			CORSAllowedMethods: []string{"GET", "POST"},
			CORSAllowedHeaders: []string{"Content-Type"},
		},
		Invoice: config.InvoiceConfig{CompanyName: "Toy Shop", Currency: "DT"},
	}
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	log := logger.Discard()

	catalog := &fakeCatalog{
		products: []product.Product{
			{ID: "bear", Name: "Sleepy Bear", Price: 49, Category: "Plush", Images: []string{"bear.jpg"}},
			{ID: "tee", Name: "Bunny Tee", Price: 45, Category: "T-shirts"},
			{ID: "box", Name: "Mystery Box", Price: 20, Category: "Blind Boxes"},
		},
		levels: map[string][]product.BlindBox{
			"box": {{ID: "l1", ProductID: "box", Level: "rare", Price: 35}},
		},
	}

	kv := opts.kv
	if kv == nil {
		kv = storage.NewMemory()
	}
	sessions := shop.NewSessions(storage.PersisterFor(kv), shop.NewProductCache(catalog, time.Minute, log), time.Hour, 5, log)

	backend := newFakeOrders()
	orderService := order.NewService(backend, log)
	checkoutService := checkout.NewService(orderService, log)
	sessions.OnEvict(checkoutService.Forget)
	tokens := auth.NewJWTManager(cfg)
	cookie := handlers.NewSessionCookie(cfg)

	h := &routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(catalog),
		Cart:     handlers.NewCartHandler(sessions, catalog, cookie, log),
		Wishlist: handlers.NewWishlistHandler(sessions, catalog, cookie, log),
		Checkout: handlers.NewCheckoutHandler(checkoutService, sessions, cookie, log),
		Admin: handlers.NewAdminHandler(
			auth.NewAdminAuthenticator(cfg, tokens),
			analytics.NewDashboard(orderService, log),
			orderService,
			pdf.NewService(cfg),
			log,
		),
	}

	server := NewServer(cfg, log, h, tokens, opts.limiter, opts.checks...)
	return &testEnv{handler: server.Handler(), orders: backend}
}

// client replays the session cookie like a browser
type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
	token   string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, handler: e.handler}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	d, ok := decode(t, rec)["data"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return d
}

func TestStorefront_CartWishlistAndCheckout(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	c := env.client(t)

	rec := c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.cookies, 1)
	assert.Equal(t, "session_id", c.cookies[0].Name)
	assert.True(t, c.cookies[0].HttpOnly)

	rec = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear", "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, decode(t, rec), "warning")

	rec = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id":    "tee",
		"customization": gin.H{"kind": "tshirt", "size": "M", "color": "white"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := data(t, rec)["cart"].(map[string]any)
	assert.Equal(t, float64(3), cart["item_count"])
	assert.Equal(t, 143.0, cart["subtotal"])
	teeKey := data(t, rec)["item"].(map[string]any)["key"].(string)

	rec = c.do(http.MethodPost, "/api/v1/wishlist/toggle", gin.H{"product_id": "bear"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(t, rec)["in_wishlist"])

	rec = c.do(http.MethodGet, "/api/v1/wishlist/bear", nil)
	assert.Equal(t, true, data(t, rec)["in_wishlist"])

	rec = c.do(http.MethodGet, "/api/v1/search?q=SLEEPY", nil)
	results := decode(t, rec)["data"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "bear", results[0].(map[string]any)["id"])

	// Only the T-shirt is checked out
	rec = c.do(http.MethodPut, "/api/v1/cart/selection", gin.H{"keys": []string{teeKey}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["selected"])

	rec = c.do(http.MethodPost, "/api/v1/checkout", gin.H{"full_name": "Sarra", "address": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []any{"address", "phone"}, decode(t, rec)["fields"])

	rec = c.do(http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Sarra Ben Ali",
		"address":   "12 Rue des Jasmins",
		"phone":     "+216 20 000 000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := data(t, rec)
	assert.Equal(t, 45.0, result["total"])
	orderID := result["order_id"].(string)

	placed, err := env.orders.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, "tshirt", placed.Items[0].Customization.Kind)

	rec = c.do(http.MethodGet, "/api/v1/cart", nil)
	cart = data(t, rec)
	items := cart["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "bear", items[0].(map[string]any)["product"].(map[string]any)["id"])
	assert.Empty(t, cart["selected"])

	rec = c.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, "success", data(t, rec)["state"])
	assert.Equal(t, orderID, data(t, rec)["order_id"])
}

func TestStorefront_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	alice := env.client(t)
	bob := env.client(t)

	alice.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear"})

	rec := bob.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Empty(t, data(t, rec)["items"])

	rec = alice.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, data(t, rec)["items"], 1)
}

func TestCart_Errors(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	c := env.client(t)

	rec := c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "tee", "customization": gin.H{"kind": "tshirt"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear", "quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, "/api/v1/cart/items/missing", gin.H{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/checkout", gin.H{"full_name": "A", "address": "B", "phone": "C"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, checkout.ErrEmptyCart.Error(), decode(t, rec)["error"])
}

func TestCart_BlindBoxUsesLevelPrice(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	c := env.client(t)

	rec := c.do(http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": "box",
		"blind_box":  gin.H{"level": "rare", "color": "gold", "quantity": 1},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := data(t, rec)["item"].(map[string]any)
	assert.Equal(t, 35.0, item["product"].(map[string]any)["price"])

	rec = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{
		"product_id": "box",
		"blind_box":  gin.H{"level": "legendary", "quantity": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_PersistFailureReturnsWarning(t *testing.T) {
	env := newTestEnv(t, envOptions{kv: failingKV{}})
	c := env.client(t)

	rec := c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["warning"], "disk full")

	rec = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, data(t, rec)["items"], 1)
}

func TestCheckout_BackendErrorKeepsCart(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.orders.createErr = errors.New(`new row for relation "orders" violates check constraint`)
	c := env.client(t)

	c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear"})
	form := gin.H{"full_name": "Sarra", "address": "Tunis", "phone": "123"}

	rec := c.do(http.MethodPost, "/api/v1/checkout", form)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "violates check constraint")

	rec = c.do(http.MethodGet, "/api/v1/checkout", nil)
	state := data(t, rec)
	assert.Equal(t, "idle", state["state"])
	assert.Contains(t, state["last_error"], "violates check constraint")
	assert.Equal(t, "Sarra", state["form"].(map[string]any)["full_name"])

	rec = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, data(t, rec)["items"], 1)

	env.orders.createErr = nil
	rec = c.do(http.MethodPost, "/api/v1/checkout", form)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdmin_LoginOrdersAndInvoice(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	shopper := env.client(t)
	shopper.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "bear"})
	rec := shopper.do(http.MethodPost, "/api/v1/checkout", gin.H{"full_name": "Sarra", "address": "Tunis", "phone": "123"})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := data(t, rec)["order_id"].(string)

	admin := env.client(t)

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = admin.do(http.MethodPost, "/api/v1/admin/login", gin.H{"email": adminEmail, "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = admin.do(http.MethodPost, "/api/v1/admin/login", gin.H{"email": strings.ToUpper(adminEmail), "password": adminPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	admin.token = data(t, rec)["token"].(string)

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders?status=all&range=today", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	orders := decode(t, rec)["data"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "pending", orders[0].(map[string]any)["status"])

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders?range=nextWeek", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = admin.do(http.MethodPut, "/api/v1/admin/orders/unknown/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = admin.do(http.MethodPut, "/api/v1/admin/orders/"+orderID+"/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders?status=completed", nil)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := data(t, rec)
	assert.Equal(t, float64(1), summary["total_orders"])
	assert.Equal(t, 49.0, summary["total_revenue"])

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders/"+orderID+"/invoice?format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "INV-"+orderID[:8])

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders/unknown/invoice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_ViewsShowOrdersPlacedAfterFirstLoad(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := env.client(t)
	rec := admin.do(http.MethodPost, "/api/v1/admin/login", gin.H{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	admin.token = data(t, rec)["token"].(string)

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"])

	shopper := env.client(t)
	shopper.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "tee", "customization": gin.H{"kind": "tshirt", "size": "S", "color": "pink"}})
	rec = shopper.do(http.MethodPost, "/api/v1/checkout", gin.H{"full_name": "Yasmine", "address": "Sfax", "phone": "456"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = admin.do(http.MethodGet, "/api/v1/admin/orders/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, rec)["total_orders"])
}

func TestMiddleware_RequestIDAndRateLimit(t *testing.T) {
	env := newTestEnv(t, envOptions{limiter: &fakeCounter{}})
	c := env.client(t)

	rec := c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	c.do(http.MethodGet, "/ready", nil)
	rec = c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMiddleware_BodyLimitAndCORS(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	big := strings.Repeat("x", 1<<17)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":"`+big+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	healthy := newTestEnv(t, envOptions{checks: []HealthCheck{{Name: "backend", Check: func() error { return nil }}}})
	rec := healthy.client(t).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestEnv(t, envOptions{checks: []HealthCheck{{Name: "redis", Check: func() error { return errors.New("refused") }}}})
	rec = down.client(t).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis ping failed", decode(t, rec)["error"])
}
