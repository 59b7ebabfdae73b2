package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type AddProductToCartRequest struct {
	Quantity *int `json:"quantity"`
	// BuyNow sends the visitor straight to the cart.
	BuyNow bool `json:"buy_now"`
}

// GetAllProducts lists the catalogue
// GET /api/v1/products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	products, err := ctrl.productService.ListProducts(c.Request.Context(), profileID)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.ParseAndRespond(c, err, "load products")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	respond(c, http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"product_id": c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(c.Request.Context(), middleware.GetProfileID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, err, "load the product")
		return
	}

	respond(c, http.StatusOK, gin.H{"product": product})
}

// AddToCart adds the current catalogue entry to the cart
// POST /api/v1/products/:id/cart
func (ctrl *ProductController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	id, ok := parseID(c)
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req AddProductToCartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Warn("Invalid add to cart request", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
			return
		}
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	lines, err := ctrl.productService.AddToCart(c.Request.Context(), profileID, id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductOutOfStock):
			apperrors.Conflict(c, apperrors.ProductOutOfStock, "This product is out of stock")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQty, "Quantity must be at least 1")
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidProduct):
			apperrors.BadRequest(c, apperrors.CartInvalidProduct, "Invalid product")
		default:
			log.Error("Failed to add product to cart", err, map[string]interface{}{
				"profile_id": profileID,
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, err, "add the item to your cart")
		}
		return
	}

	body := gin.H{"cart": service.SummarizeCart(lines)}
	if req.BuyNow {
		body["redirect"] = "/cart"
	}
	respond(c, http.StatusCreated, body)
}
