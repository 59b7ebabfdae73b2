package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/logger"
)

var ErrEmptyCart = errors.New("cart is empty")

// ValidationError lists the form fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, profileID string, form model.CheckoutForm) (*model.Receipt, error)
}

type checkoutService struct {
	cartService    CartService
	sessionService SessionService
	validate       *validator.Validate
	submitOrders   bool
	now            func() time.Time
}

// NewCheckoutService wires checkout. With submitOrders set, orders of signed
// in users are created on the shop API; everything else is simulated.
func NewCheckoutService(cartService CartService, sessionService SessionService, submitOrders bool) CheckoutService {
	return &checkoutService{
		cartService:    cartService,
		sessionService: sessionService,
		validate:       newFormValidator(),
		submitOrders:   submitOrders,
		now:            time.Now,
	}
}

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *checkoutService) validateForm(form model.CheckoutForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

func normalizeForm(form model.CheckoutForm) model.CheckoutForm {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	form.Address = strings.TrimSpace(form.Address)
	form.City = strings.TrimSpace(form.City)
	form.State = strings.TrimSpace(form.State)
	form.ZipCode = strings.TrimSpace(form.ZipCode)
	if form.PaymentMethod == "" {
		form.PaymentMethod = model.PaymentCreditCard
	}
	if form.PaymentMethod == model.PaymentCash {
		form.CardNumber, form.CardExpiry, form.CardCVV = "", "", ""
	}
	return form
}

// PlaceOrder clears the cart only once the order is confirmed. A failed
// submission leaves the cart as it was.
func (s *checkoutService) PlaceOrder(ctx context.Context, profileID string, form model.CheckoutForm) (*model.Receipt, error) {
	logger.Info("Placing order", map[string]interface{}{
		"profile_id": profileID,
	})

	lines, err := s.cartService.GetCart(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		NotifyError(ctx, "Empty Cart", "Please add items to your cart before checkout")
		return nil, ErrEmptyCart
	}

	form = normalizeForm(form)
	if err := s.validateForm(form); err != nil {
		logger.Warn("Checkout form rejected", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		NotifyError(ctx, "Missing information", "Please fill in all required fields")
		return nil, err
	}

	receipt := &model.Receipt{
		PaymentMethod: form.PaymentMethod,
		Lines:         lines,
		ItemCount:     CartItemCount(lines),
		Total:         CartTotal(lines),
		PlacedAt:      s.now().UTC(),
	}

	session := s.sessionService.Rehydrate(ctx, profileID)
	if s.submitOrders && session.Authenticated() {
		order, err := s.submit(ctx, profileID, form, lines, receipt)
		if err != nil {
			logger.Error("Failed to submit order", err, map[string]interface{}{
				"profile_id": profileID,
			})
			NotifyError(ctx, "Order failed", orderFailureMessage(err))
			return nil, err
		}
		receipt.OrderID = order.ID
		receipt.Reference = fmt.Sprintf("ORD-%d", order.ID)
		receipt.Submitted = true
	} else {
		receipt.Reference = "SIM-" + strings.ToUpper(uuid.New().String()[:8])
	}

	if err := s.cartService.ClearCart(ctx, profileID); err != nil {
		logger.Error("Order placed but cart could not be cleared", err, map[string]interface{}{
			"profile_id": profileID,
			"reference":  receipt.Reference,
		})
	}

	Notify(ctx, "Order placed successfully!", "Thank you for your purchase")
	logger.Info("Order placed", map[string]interface{}{
		"profile_id": profileID,
		"reference":  receipt.Reference,
		"submitted":  receipt.Submitted,
		"items":      receipt.ItemCount,
		"total":      receipt.Total.String(),
	})
	return receipt, nil
}

func (s *checkoutService) submit(ctx context.Context, profileID string, form model.CheckoutForm, lines []model.CartLine, receipt *model.Receipt) (*model.Order, error) {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderItem{Product: line.ID, Quantity: line.Quantity})
	}
	address := form.ShippingAddress()
	return s.sessionService.Gateway(profileID).Orders().Create(ctx, model.OrderInput{
		ShippingAddress: address,
		BillingAddress:  address,
		TotalAmount:     receipt.Total,
		Items:           items,
	})
}
