package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductOutOfStock = errors.New("product is out of stock")
)

// ProductService reads the catalogue through the shop API and feeds the
// cart from it.
type ProductService interface {
	ListProducts(ctx context.Context, profileID string) ([]model.Product, error)
	GetProduct(ctx context.Context, profileID string, productID int64) (*model.Product, error)
	AddToCart(ctx context.Context, profileID string, productID int64, quantity int) ([]model.CartLine, error)
}

type productService struct {
	sessionService SessionService
	cartService    CartService
}

func NewProductService(sessionService SessionService, cartService CartService) ProductService {
	return &productService{
		sessionService: sessionService,
		cartService:    cartService,
	}
}

func (s *productService) ListProducts(ctx context.Context, profileID string) ([]model.Product, error) {
	products, err := s.sessionService.Gateway(profileID).Products().List(ctx)
	if err != nil {
		logger.Warn("Failed to list products", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, profileID string, productID int64) (*model.Product, error) {
	product, err := s.sessionService.Gateway(profileID).Products().Get(ctx, productID)
	if err != nil {
		if shopapi.StatusCode(err) == http.StatusNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// AddToCart snapshots the current catalogue entry into the cart.
func (s *productService) AddToCart(ctx context.Context, profileID string, productID int64, quantity int) ([]model.CartLine, error) {
	product, err := s.GetProduct(ctx, profileID, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		logger.Warn("Cannot add to cart: product out of stock", map[string]interface{}{
			"profile_id": profileID,
			"product_id": productID,
		})
		return nil, ErrProductOutOfStock
	}
	return s.cartService.AddItem(ctx, profileID, product.Snapshot(), quantity)
}
