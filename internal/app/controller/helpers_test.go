package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/stretchr/testify/require"
)

const testProfile = "profile-test"

// fakeShop is a scripted stand-in for the remote shop API.
type fakeShop struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func (f *fakeShop) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

func (f *fakeShop) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[method+" "+path]
}

func (f *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.hits[key]++
	h, ok := f.routes[key]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type controllerEnv struct {
	router   *gin.Engine
	shop     *fakeShop
	carts    service.CartService
	sessions service.SessionService
	sessRepo repository.SessionRepository
}

// setupControllerTest wires the page views over a sqlite backed profile
// store and a fake shop API.
func setupControllerTest(t *testing.T, submitOrders bool) *controllerEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	shop := &fakeShop{routes: map[string]http.HandlerFunc{}, hits: map[string]int{}}
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)

	client, err := shopapi.NewClient(shopapi.Config{
		BaseURL:               srv.URL,
		RefreshOnUnauthorized: true,
		HTTPClient:            srv.Client(),
	})
	require.NoError(t, err)

	stores := storage.NewProvider(storage.NewGormBackend(testDB))
	sessRepo := repository.NewSessionRepository(stores)
	carts := service.NewCartService(repository.NewCartRepository(stores))
	sessions := service.NewSessionService(sessRepo, client)
	products := service.NewProductService(sessions, carts)
	orders := service.NewOrderService(sessions)
	checkout := service.NewCheckoutService(carts, sessions, submitOrders)

	cartCtrl := NewCartController(carts)
	authCtrl := NewAuthController(sessions)
	productCtrl := NewProductController(products)
	orderCtrl := NewOrderController(orders)
	checkoutCtrl := NewCheckoutController(checkout)
	gate := middleware.NewSessionMiddleware(sessions)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware(), middleware.ProfileMiddleware(false), middleware.NotificationMiddleware())
	router.GET("/health", NewHealthController("postgres").Health)

	v1 := router.Group("/api/v1")
	v1.GET("/cart", cartCtrl.GetCart)
	v1.DELETE("/cart", cartCtrl.ClearCart)
	v1.GET("/cart/export", cartCtrl.ExportCart)
	v1.POST("/cart/items", cartCtrl.AddItem)
	v1.PUT("/cart/items/:id", cartCtrl.UpdateItem)
	v1.DELETE("/cart/items/:id", cartCtrl.RemoveItem)
	v1.POST("/checkout", checkoutCtrl.PlaceOrder)
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/logout", authCtrl.Logout)
	v1.POST("/auth/register", authCtrl.Register)
	v1.POST("/auth/refresh", authCtrl.Refresh)
	v1.GET("/auth/session", gate.LoadSession(), authCtrl.GetSession)
	v1.GET("/auth/me", gate.RequireSession(), authCtrl.GetMe)
	v1.POST("/auth/password-reset", authCtrl.ForgotPassword)
	v1.POST("/auth/password-reset/confirm", authCtrl.ResetPassword)
	v1.GET("/products", productCtrl.GetAllProducts)
	v1.GET("/products/:id", productCtrl.GetProductByID)
	v1.POST("/products/:id/cart", productCtrl.AddToCart)
	v1.GET("/orders", gate.RequireSession(), orderCtrl.GetOrders)
	v1.GET("/orders/:id", gate.RequireSession(), orderCtrl.GetOrderByID)

	return &controllerEnv{
		router:   router,
		shop:     shop,
		carts:    carts,
		sessions: sessions,
		sessRepo: sessRepo,
	}
}

// do sends a request as the test profile.
func (e *controllerEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.ProfileIDHeader, testProfile)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// notificationTitles lists the titles of the notifications in a response.
func notificationTitles(body map[string]interface{}) []string {
	raw, _ := body["notifications"].([]interface{})
	titles := make([]string, 0, len(raw))
	for _, n := range raw {
		if m, ok := n.(map[string]interface{}); ok {
			titles = append(titles, m["title"].(string))
		}
	}
	return titles
}

func loginPayload(token string) map[string]interface{} {
	return map[string]interface{}{
		"token":   token,
		"refresh": "refresh-" + token,
		"user": map[string]interface{}{
			"id":       7,
			"email":    "ann@example.com",
			"username": "ann",
		},
	}
}

// signIn logs the test profile in through the login page view.
func (e *controllerEnv) signIn(t *testing.T) {
	e.shop.handle(http.MethodPost, "/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, loginPayload("access-1"))
	})
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
