package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ID       int64           `json:"id" binding:"required,gt=0"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity *int            `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the cart with its order summary
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	summary, err := ctrl.cartService.GetSummary(c.Request.Context(), profileID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"profile_id": profileID,
		})
		apperrors.ParseAndRespond(c, err, "load your cart")
		return
	}

	log.Info("Cart fetched successfully", map[string]interface{}{
		"profile_id": profileID,
		"lines":      summary.LineCount,
		"total":      summary.Total.String(),
	})

	respond(c, http.StatusOK, gin.H{"cart": summary})
}

// AddItem adds a product snapshot to the cart, merging with an existing line
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := model.ProductSnapshot{ID: req.ID, Name: req.Name, Price: req.Price, Image: req.Image}
	lines, err := ctrl.cartService.AddItem(c.Request.Context(), profileID, product, quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "add the item to your cart")
		return
	}

	summary := service.SummarizeCart(lines)
	respond(c, http.StatusCreated, gin.H{"cart": summary})
}

// UpdateItem sets the quantity of a cart line. A quantity below 1 leaves the
// cart unchanged.
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	id, ok := parseID(c)
	if !ok {
		log.Warn("Invalid cart item ID format", map[string]interface{}{
			"profile_id":   profileID,
			"cart_item_id": c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"profile_id":   profileID,
			"cart_item_id": id,
			"error":        err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	lines, err := ctrl.cartService.SetQuantity(c.Request.Context(), profileID, id, *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "update your cart")
		return
	}

	respond(c, http.StatusOK, gin.H{"cart": service.SummarizeCart(lines)})
}

// RemoveItem removes a line from the cart
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	id, ok := parseID(c)
	if !ok {
		log.Warn("Invalid cart item ID format", map[string]interface{}{
			"profile_id":   profileID,
			"cart_item_id": c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid cart item ID")
		return
	}

	lines, err := ctrl.cartService.RemoveItem(c.Request.Context(), profileID, id)
	if err != nil {
		ctrl.respondCartError(c, err, "remove the item")
		return
	}

	respond(c, http.StatusOK, gin.H{"cart": service.SummarizeCart(lines)})
}

// ClearCart clears all items from cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	if err := ctrl.cartService.ClearCart(c.Request.Context(), profileID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"profile_id": profileID,
		})
		apperrors.ParseAndRespond(c, err, "clear your cart")
		return
	}

	respond(c, http.StatusOK, gin.H{"cart": service.SummarizeCart(nil)})
}

// ExportCart downloads the order summary as a spreadsheet
// GET /api/v1/cart/export
func (ctrl *CartController) ExportCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	summary, err := ctrl.cartService.GetSummary(c.Request.Context(), profileID)
	if err != nil {
		apperrors.ParseAndRespond(c, err, "export your cart")
		return
	}

	buf, err := service.ExportCartSummary(*summary)
	if err != nil {
		log.Error("Failed to build cart export", err, map[string]interface{}{
			"profile_id": profileID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExportError, "Failed to export your cart")
		return
	}

	log.Info("Cart exported", map[string]interface{}{
		"profile_id": profileID,
		"lines":      summary.LineCount,
		"bytes":      buf.Len(),
	})

	c.Header("Content-Disposition", `attachment; filename="order-summary.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		apperrors.BadRequest(c, apperrors.CartInvalidQty, "Quantity must be at least 1")
	case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidProduct):
		apperrors.BadRequest(c, apperrors.CartInvalidProduct, "Invalid product")
	case errors.Is(err, service.ErrCartLineNotFound):
		apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart item not found")
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"profile_id": middleware.GetProfileID(c),
		})
		apperrors.ParseAndRespond(c, err, action)
	}
}
