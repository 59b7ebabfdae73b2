package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/stretchr/testify/require"
)

// fakeShop is a scripted stand-in for the remote shop API.
type fakeShop struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []*http.Request
}

func (f *fakeShop) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

func (f *fakeShop) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.URL.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	h(w, r)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	shop     *fakeShop
	stores   storage.Provider
	carts    CartService
	sessions SessionService
	products ProductService
	orders   OrderService
}

func setupServiceTest(t *testing.T) *testEnv {
	shop := &fakeShop{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)

	client, err := shopapi.NewClient(shopapi.Config{
		BaseURL:               srv.URL,
		RefreshOnUnauthorized: true,
		HTTPClient:            srv.Client(),
	})
	require.NoError(t, err)

	stores := storage.NewProvider(storage.NewMemoryBackend())
	carts := NewCartService(repository.NewCartRepository(stores))
	sessions := NewSessionService(repository.NewSessionRepository(stores), client)

	return &testEnv{
		shop:     shop,
		stores:   stores,
		carts:    carts,
		sessions: sessions,
		products: NewProductService(sessions, carts),
		orders:   NewOrderService(sessions),
	}
}

func loginResponse(token string) map[string]interface{} {
	return map[string]interface{}{
		"token":   token,
		"refresh": "refresh-" + token,
		"user": map[string]interface{}{
			"id":       7,
			"email":    "ann@example.com",
			"username": "ann",
			"profile":  map[string]string{"full_name": "Ann Lee"},
		},
	}
}
