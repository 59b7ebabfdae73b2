package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

// PlaceOrder validates the checkout form and places the order for the cart
// POST /api/v1/checkout
func (ctrl *CheckoutController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	var form model.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	receipt, err := ctrl.checkoutService.PlaceOrder(c.Request.Context(), profileID, form)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Please add items to your cart before checkout")
		case errors.As(err, &validationErr):
			fields := make(map[string]string, len(validationErr.Fields))
			for _, f := range validationErr.Fields {
				fields[f] = "required"
			}
			apperrors.RespondWithValidationError(c, "Please fill in all required fields", fields)
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"profile_id": profileID,
			})
			apperrors.ParseAndRespond(c, err, "place your order")
		}
		return
	}

	respond(c, http.StatusCreated, gin.H{"receipt": receipt})
}
